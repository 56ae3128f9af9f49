// Package model defines domain entities for the application.
package model

import "time"

// User represents an authenticated account in the system.
// Users are created at registration and immutable afterwards.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credential holds the stored password hash for a user, keyed by email.
// The hash is an argon2id PHC string; the plaintext is never stored.
type Credential struct {
	Email        string
	PasswordHash string
}

// AuthContext carries the authenticated identity through a request.
type AuthContext struct {
	UserID string
	Email  string
	Token  string
}
