// Package models defines the persisted entities and the sync aggregate
// exchanged with the extension.
package models

import "time"

// User is the account record. Email is stored lower-cased; uniqueness is
// therefore case-insensitive. PasswordHash never crosses the API boundary:
// hand out Public() instead.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	DisplayName     *string
	IsActive        bool
	IsEmailVerified bool
	Plan            string
	PlanExpiresAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
}

// UserPublic is the only user representation returned to clients.
type UserPublic struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public strips the credential fields.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Plan:        u.Plan,
		CreatedAt:   u.CreatedAt,
	}
}
