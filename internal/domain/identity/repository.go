package identity

import (
	"context"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindBySchool finds all users attached to a school
	FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]User, error)

	// FindByRole finds all users of a school holding the given role
	FindByRole(ctx context.Context, schoolID uuid.UUID, role Role, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error
}
