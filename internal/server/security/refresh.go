package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewRefreshToken returns an opaque high-entropy refresh token. It carries no
// claims; the server knows it only by its digest.
func NewRefreshToken() string {
	return uuid.NewString()
}

// HashRefreshToken returns the hex SHA-256 digest of a refresh token. Only
// this digest is ever stored, so a leaked sessions table cannot be replayed.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
