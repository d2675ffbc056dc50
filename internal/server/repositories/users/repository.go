// Package users persists user accounts (the credential store).
package users

import (
	"context"

	"github.com/impulseapp/impulse-api/internal/server/models"
)

// Repository is the user persistence contract. Email lookups are
// case-insensitive: addresses are normalized to lower case on the way in.
type Repository interface {
	// Create inserts a user with the already-hashed password. A duplicate
	// email yields an error matching common.ErrConflict.
	Create(ctx context.Context, email, passwordHash string, displayName *string) (*models.User, error)

	// GetByEmail returns the user or an error matching common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user or an error matching common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// EmailExists reports whether an account already uses the address.
	EmailExists(ctx context.Context, email string) (bool, error)

	// TouchLastLogin stamps last_login_at (and updated_at) to now.
	TouchLastLogin(ctx context.Context, userID string) error
}
