package models

import "time"

// User represents an account registered from a client.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user that is safe to send to the client.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
