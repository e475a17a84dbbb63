package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           int64     `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity a verified session token resolves to.
type Principal struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}
