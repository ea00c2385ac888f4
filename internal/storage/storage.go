// Package storage emulates a browser's local storage on the server: every
// client (browser) owns a flat namespace of string keys and string values.
package storage

import (
	"context"
	"time"
)

// Keys used by the application inside a client's namespace.
const (
	KeyUsers           = "users"
	KeyCurrentUser     = "currentUser"
	KeyPaymentVerified = "paymentVerified"
)

// Store is a per-client key/value store with localStorage semantics.
type Store interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(ctx context.Context, clientID, key string) (string, bool, error)
	// SetItem creates or replaces the value for key.
	SetItem(ctx context.Context, clientID, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, clientID, key string) error
	// PurgeIdle drops every namespace whose last write happened before the
	// given time and returns the number of removed items. Namespaces holding
	// registered users are never purged.
	PurgeIdle(ctx context.Context, before time.Time) (int64, error)
}
