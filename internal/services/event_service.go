package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/wsquared-be/internal/models"
)

// Event types recorded for a client.
const (
	EventRegister         = "auth.register"
	EventLogin            = "auth.login"
	EventLoginFailed      = "auth.login.fail"
	EventLogout           = "auth.logout"
	EventPaymentVerified  = "payment.verified"
	EventPaymentRejected  = "payment.rejected"
	EventPaymentDismissed = "payment.dismissed"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, clientID, eventType, level, message string) error
	GetRecentEvents(ctx context.Context, clientID string, limit int) ([]models.Event, error)
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

// EventService provides business logic for event management.
type EventService struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db, now: time.Now}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, clientID, eventType, level, message string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Type:      eventType,
		Level:     level,
		Message:   message,
		CreatedAt: s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, client_id, type, level, message, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.ClientID, event.Type, event.Level, event.Message, event.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events recorded for a client.
func (s *EventService) GetRecentEvents(ctx context.Context, clientID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, client_id, type, level, message, created_at FROM events WHERE client_id = ? ORDER BY created_at DESC LIMIT ?",
		clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			event   models.Event
			created int64
		)
		if err := rows.Scan(&event.ID, &event.ClientID, &event.Type, &event.Level, &event.Message, &created); err != nil {
			return nil, err
		}
		event.CreatedAt = time.Unix(0, created)
		events = append(events, event)
	}
	return events, rows.Err()
}

// PurgeBefore deletes events older than the given time.
func (s *EventService) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge events: %w", err)
	}
	return res.RowsAffected()
}
