package models

import "time"

// Session binds a refresh token's SHA-256 digest to a user. The plaintext
// token exists only on the client. A session is valid iff it is not revoked
// and not past ExpiresAt; once either holds, it can never become valid again.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	DeviceInfo       *string
	ExtensionVersion *string
	IPAddress        *string
	ExpiresAt        time.Time
	LastUsedAt       time.Time
	IsRevoked        bool
	CreatedAt        time.Time
}

// SessionMeta is the optional client context recorded when a session is
// created.
type SessionMeta struct {
	DeviceInfo       *string
	ExtensionVersion *string
	IPAddress        *string
}
