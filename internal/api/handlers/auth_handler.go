package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles the JSON login, registration and logout requests.
type AuthHandler struct {
	auth     services.AuthServiceProvider
	sessions services.SessionServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth services.AuthServiceProvider, sessions services.SessionServiceProvider) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// AuthResponse is returned after a successful login or registration.
type AuthResponse struct {
	User  models.User       `json:"user"`
	State models.ShellState `json:"state"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterData
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	id := clientID(r)
	user, err := h.auth.Register(r.Context(), id, payload)
	if err != nil {
		if !isUserError(err) {
			log.Error().Err(err).Str("client_id", id).Str("email", payload.Email).Msg("Failed to register user")
		}
		writeError(w, err)
		return
	}

	h.respond(w, r, http.StatusCreated, user)
}

// Login handles user authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload services.LoginData
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	id := clientID(r)
	user, err := h.auth.Login(r.Context(), id, payload)
	if err != nil {
		if isUserError(err) {
			log.Warn().Str("client_id", id).Str("email", payload.Email).Msg("Failed authentication attempt")
		} else {
			log.Error().Err(err).Str("client_id", id).Msg("Failed to log in")
		}
		writeError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, user)
}

// Logout clears the current user of the client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := clientID(r)
	if err := h.sessions.Logout(r.Context(), id); err != nil {
		log.Error().Err(err).Str("client_id", id).Msg("Failed to log out")
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	state, err := h.sessions.State(r.Context(), clientID(r))
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to load session state")
		writeError(w, err)
		return
	}
	writeJSON(w, status, AuthResponse{User: user, State: state})
}
