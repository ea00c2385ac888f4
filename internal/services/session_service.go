package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/rs/zerolog/log"
)

const paymentVerifiedValue = "true"

// SessionNotifier receives the shell state of a client after it changes.
type SessionNotifier interface {
	NotifySession(clientID string, state models.ShellState)
}

// SessionServiceProvider defines the interface for session flag management.
type SessionServiceProvider interface {
	State(ctx context.Context, clientID string) (models.ShellState, error)
	SetCurrentUser(ctx context.Context, clientID string, user models.User) error
	ClearCurrentUser(ctx context.Context, clientID string) error
	SetPaymentVerified(ctx context.Context, clientID string) error
	ResetPaymentVerified(ctx context.Context, clientID string) error
	Logout(ctx context.Context, clientID string) error
	Publish(ctx context.Context, clientID string)
}

// SessionService reads and writes the currentUser and paymentVerified flags
// and derives the shell state from them.
type SessionService struct {
	store    storage.Store
	events   EventServiceProvider
	notifier SessionNotifier
}

// NewSessionService creates a new SessionService. notifier may be nil.
func NewSessionService(store storage.Store, events EventServiceProvider, notifier SessionNotifier) *SessionService {
	return &SessionService{store: store, events: events, notifier: notifier}
}

// State restores the shell state from the client's session flags.
func (s *SessionService) State(ctx context.Context, clientID string) (models.ShellState, error) {
	var state models.ShellState

	raw, ok, err := s.store.GetItem(ctx, clientID, storage.KeyCurrentUser)
	if err != nil {
		return state, err
	}
	if !ok {
		return state, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Str("client_id", clientID).Msg("Discarding unreadable currentUser")
		return state, nil
	}

	verified, _, err := s.store.GetItem(ctx, clientID, storage.KeyPaymentVerified)
	if err != nil {
		return state, err
	}

	state.CurrentUser = &user
	if verified == paymentVerifiedValue {
		state.Authenticated = true
		state.PaymentVerified = true
	} else {
		state.ShowPaymentDialog = true
	}
	return state, nil
}

// SetCurrentUser persists user as the signed-in user of the client.
func (s *SessionService) SetCurrentUser(ctx context.Context, clientID string, user models.User) error {
	raw, err := json.Marshal(user.Sanitized())
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	return s.store.SetItem(ctx, clientID, storage.KeyCurrentUser, string(raw))
}

// ClearCurrentUser removes the signed-in user of the client.
func (s *SessionService) ClearCurrentUser(ctx context.Context, clientID string) error {
	return s.store.RemoveItem(ctx, clientID, storage.KeyCurrentUser)
}

// SetPaymentVerified marks the client's payment as verified.
func (s *SessionService) SetPaymentVerified(ctx context.Context, clientID string) error {
	return s.store.SetItem(ctx, clientID, storage.KeyPaymentVerified, paymentVerifiedValue)
}

// ResetPaymentVerified removes the client's payment-verified flag.
func (s *SessionService) ResetPaymentVerified(ctx context.Context, clientID string) error {
	return s.store.RemoveItem(ctx, clientID, storage.KeyPaymentVerified)
}

// Logout clears the current user. The payment-verified flag is left as is.
func (s *SessionService) Logout(ctx context.Context, clientID string) error {
	state, err := s.State(ctx, clientID)
	if err != nil {
		return err
	}
	if err := s.ClearCurrentUser(ctx, clientID); err != nil {
		return err
	}

	if state.CurrentUser != nil {
		recordEvent(ctx, s.events, clientID, EventLogout, "info",
			fmt.Sprintf("User '%s' signed out.", state.CurrentUser.Email))
	}
	s.Publish(ctx, clientID)
	return nil
}

// Publish sends the client's current shell state to the notifier.
func (s *SessionService) Publish(ctx context.Context, clientID string) {
	if s.notifier == nil {
		return
	}
	state, err := s.State(ctx, clientID)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to load state for notification")
		return
	}
	s.notifier.NotifySession(clientID, state)
}

// recordEvent writes an event and only logs a failure; events never block a flow.
func recordEvent(ctx context.Context, events EventServiceProvider, clientID, eventType, level, message string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, clientID, eventType, level, message); err != nil {
		log.Warn().Err(err).Str("client_id", clientID).Str("type", eventType).Msg("Failed to record event")
	}
}
