// Package security holds the credential primitives: slow password hashing and
// refresh-token generation/digesting. Nothing in here touches the store.
package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is tuned so a verify takes on the order of 100ms on current
// server hardware.
const bcryptCost = 12

// HashPassword produces a salted one-way hash of the password. The plaintext
// is never persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. bcrypt's
// comparison is constant-time over the derived key.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
