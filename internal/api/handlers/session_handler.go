package handlers

import (
	"net/http"

	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/rs/zerolog/log"
)

// SessionHandler exposes the derived shell state.
type SessionHandler struct {
	sessions services.SessionServiceProvider
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions services.SessionServiceProvider) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get returns the shell state restored from the client's session flags.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(r.Context(), clientID(r))
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to load session state")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
