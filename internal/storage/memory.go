package storage

import (
	"context"
	"sync"
	"time"
)

type namespace struct {
	items     map[string]string
	updatedAt time.Time
}

// MemoryStore is an in-process Store. Data does not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	clients map[string]*namespace
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[string]*namespace), now: time.Now}
}

func (m *MemoryStore) GetItem(_ context.Context, clientID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.clients[clientID]
	if !ok {
		return "", false, nil
	}
	v, ok := ns.items[key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.clients[clientID]
	if !ok {
		ns = &namespace{items: make(map[string]string)}
		m.clients[clientID] = ns
	}
	ns.items[key] = value
	ns.updatedAt = m.now()
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.clients[clientID]
	if !ok {
		return nil
	}
	delete(ns.items, key)
	if len(ns.items) == 0 {
		delete(m.clients, clientID)
	}
	return nil
}

func (m *MemoryStore) PurgeIdle(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, ns := range m.clients {
		if _, hasUsers := ns.items[KeyUsers]; hasUsers {
			continue
		}
		if ns.updatedAt.Before(before) {
			removed += int64(len(ns.items))
			delete(m.clients, id)
		}
	}
	return removed, nil
}
