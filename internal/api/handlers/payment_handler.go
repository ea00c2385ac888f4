package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PaymentHandler handles the payment verification requests.
type PaymentHandler struct {
	payments services.PaymentServiceProvider
	sessions services.SessionServiceProvider
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments services.PaymentServiceProvider, sessions services.SessionServiceProvider) *PaymentHandler {
	return &PaymentHandler{payments: payments, sessions: sessions}
}

// VerifyPayload is the body of a verification request.
type VerifyPayload struct {
	Code string `json:"code"`
}

// Instructions returns the pay bill instructions.
func (h *PaymentHandler) Instructions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.Instructions())
}

// Verify checks a confirmation code and unlocks the dashboard.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload VerifyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	id := clientID(r)
	if err := h.payments.Verify(r.Context(), id, payload.Code); err != nil {
		if !isUserError(err) {
			log.Error().Err(err).Str("client_id", id).Msg("Failed to verify payment")
		}
		writeError(w, err)
		return
	}
	h.writeState(w, r)
}

// Dismiss closes the payment dialog, signing the user out.
func (h *PaymentHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := clientID(r)
	if err := h.payments.Dismiss(r.Context(), id); err != nil {
		log.Error().Err(err).Str("client_id", id).Msg("Failed to dismiss payment dialog")
		writeError(w, err)
		return
	}
	h.writeState(w, r)
}

func (h *PaymentHandler) writeState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(r.Context(), clientID(r))
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID(r)).Msg("Failed to load session state")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
