// Package auth issues and verifies the signed access tokens that authenticate
// individual requests. Refresh tokens are opaque and live in the sessions
// repository; only their lifetime parsing is shared here.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be fully verified:
// bad signature, malformed structure, wrong signing method, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the access-token claims. The userId/email JSON keys match what
// the extension already decodes client-side.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// GenerateAccessToken mints a short-lived HS256 token for the given user.
func GenerateAccessToken(userID, email string, secret []byte, lifetime time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(secret)
}

// VerifyAccessToken parses and verifies a token. It fails closed: any problem
// yields ErrInvalidToken, never partial claims.
func VerifyAccessToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
