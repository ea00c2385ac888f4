package models

import "time"

// Event represents a loggable action taken from a client.
type Event struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"-"`
	Type      string    `json:"type"`  // e.g., "auth.login", "payment.verified"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
