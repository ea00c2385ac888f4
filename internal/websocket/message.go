package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Actions exchanged with the browser.
const (
	ActionSessionUpdated = "session.updated"
	ActionPing           = "ping"
	ActionPong           = "pong"
	ActionError          = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Encode marshals a message, logging and returning nil on failure.
func Encode(action string, payload interface{}) []byte {
	b, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return nil
	}
	return b
}

// NewErrorMessage builds an error message for a client.
func NewErrorMessage(text string) []byte {
	return Encode(ActionError, map[string]string{"error": text})
}
