// Package sessions persists refresh-token sessions (the session registry).
// Only the SHA-256 digest of a refresh token is ever stored; the digest
// computed here is the sole point where a presented token is accepted or
// rejected.
package sessions

import (
	"context"
	"time"

	"github.com/impulseapp/impulse-api/internal/server/models"
)

// Repository is the session persistence contract. A session is valid iff it
// is not revoked and expires_at is in the future; there is no way back from
// either terminal state.
type Repository interface {
	// Create stores a new session for the refresh token, expiring after
	// validity. Device metadata is optional.
	Create(ctx context.Context, userID, refreshToken string, validity time.Duration, meta models.SessionMeta) (*models.Session, error)

	// FindValidByRefreshToken digests the presented token and matches it
	// against non-revoked, non-expired sessions. Returns an error matching
	// common.ErrNotFound when nothing valid matches.
	FindValidByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)

	// TouchLastUsed stamps last_used_at to now.
	TouchLastUsed(ctx context.Context, sessionID string) error

	// Revoke marks one session revoked.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeByRefreshToken revokes whatever session matches the token's
	// digest. Matching nothing is not an error.
	RevokeByRefreshToken(ctx context.Context, refreshToken string) error

	// RevokeAll revokes every session belonging to the user.
	RevokeAll(ctx context.Context, userID string) error

	// CleanupExpired deletes sessions that are expired or revoked and
	// returns how many rows went away. Safe to run concurrently with
	// request traffic: it only removes rows already outside the validity
	// window.
	CleanupExpired(ctx context.Context) (int64, error)
}
