package model

import "time"

// Session binds an opaque bearer token to a user.
// Sessions have no expiry; they remain valid until explicitly revoked by
// logout. A user may hold several valid sessions at once.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
