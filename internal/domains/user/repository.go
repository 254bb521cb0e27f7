package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create returns ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername may be served from cache and never carries PasswordHash.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindCredentials reads the user with PasswordHash from the primary
	// store, bypassing any cache.
	FindCredentials(ctx context.Context, username string) (*User, error)

	// Delete removes the user; posts, comments and follow edges cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
