package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/wsquared-be/internal/auth"
	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every failed JSON request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: services.Message(err)})
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrVerificationInProgress):
		return http.StatusConflict
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrInvalidConfirmationCode),
		errors.Is(err, services.ErrConfirmationRejected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isUserError reports whether err is a validation failure the user can fix.
func isUserError(err error) bool {
	return statusFor(err) != http.StatusInternalServerError
}

func clientID(r *http.Request) string {
	id, _ := auth.ClientID(r.Context())
	return id
}
