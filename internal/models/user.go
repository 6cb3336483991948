package models

import "time"

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"` // Not serialized
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller carried by a bearer token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
