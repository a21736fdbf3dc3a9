package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/orderdesk/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Role represents the administrative role of a user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupport  Role = "support"
	RoleReadonly Role = "readonly"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleReadonly:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// DefaultPermissions returns the permission set granted by the role
func (r Role) DefaultPermissions() []string {
	switch r {
	case RoleAdmin:
		return []string{"orders:read", "orders:write", "orders:delete", "ingestion:trigger", "analytics:read", "users:manage"}
	case RoleSupport:
		return []string{"orders:read", "orders:write", "ingestion:trigger", "analytics:read"}
	case RoleReadonly:
		return []string{"orders:read", "analytics:read"}
	}
	return nil
}

// User is the administrative actor referenced by order mutations
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Permissions  []string
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with the role's default permission set
func NewUser(name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Permissions:  role.DefaultPermissions(),
		Active:       true,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored credential
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// ChangeRole replaces the role and resets permissions to its defaults
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}
	u.Role = role
	u.Permissions = role.DefaultPermissions()
	u.Touch()
	return nil
}

// HasPermission reports whether the user's permission set contains perm
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Activate marks the user active
func (u *User) Activate() {
	u.Active = true
	u.Touch()
}

// Deactivate marks the user inactive; inactive users cannot authenticate
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

// RecordLogin stamps a successful authentication
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.Touch()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
