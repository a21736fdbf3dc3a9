package models

import (
	"encoding/json"
	"time"

	"github.com/orderdesk/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User entity.
type UserModel struct {
	BaseModel
	Name            string        `gorm:"type:varchar(100);not null"`
	Email           string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash    string        `gorm:"type:varchar(255);not null"`
	Role            identity.Role `gorm:"type:varchar(20);not null;default:'readonly'"`
	PermissionsJSON string        `gorm:"type:jsonb;column:permissions"`
	Active          bool          `gorm:"not null"`
	LastLoginAt     *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Active:       m.Active,
		LastLoginAt:  m.LastLoginAt,
	}
	if m.PermissionsJSON != "" {
		_ = json.Unmarshal([]byte(m.PermissionsJSON), &u.Permissions)
	}
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
	if len(u.Permissions) > 0 {
		m.PermissionsJSON = marshalJSON(u.Permissions, "[]")
	} else {
		m.PermissionsJSON = "[]"
	}
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
