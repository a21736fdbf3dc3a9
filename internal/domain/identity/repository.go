package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserFilter narrows and pages user listings
type UserFilter struct {
	Role      Role
	Active    *bool
	Search    string // matches name or email
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users matching the filter with the total match count
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)

	// Save creates a user
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, u *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
