package services

import (
	"context"
	"sync"
	"testing"

	"github.com/isdelr/wsquared-be/internal/database"
	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/stretchr/testify/require"
)

const testClient = "client-1"

type recordingNotifier struct {
	mu     sync.Mutex
	states map[string][]models.ShellState
}

func (n *recordingNotifier) NotifySession(clientID string, state models.ShellState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.states == nil {
		n.states = make(map[string][]models.ShellState)
	}
	n.states[clientID] = append(n.states[clientID], state)
}

func (n *recordingNotifier) last(clientID string) (models.ShellState, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := n.states[clientID]
	if len(s) == 0 {
		return models.ShellState{}, false
	}
	return s[len(s)-1], true
}

type testEnv struct {
	store    *storage.MemoryStore
	users    *UserStore
	events   *EventService
	sessions *SessionService
	auth     *AuthService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	env := &testEnv{
		store:    storage.NewMemoryStore(),
		events:   NewEventService(db),
		notifier: &recordingNotifier{},
	}
	env.users = NewUserStore(env.store)
	env.sessions = NewSessionService(env.store, env.events, env.notifier)
	env.auth = NewAuthService(env.users, env.sessions, env.events)
	return env
}

func validRegistration() RegisterData {
	return RegisterData{
		Name:     "Wanjiku Kamau",
		Email:    "wanjiku@example.com",
		Password: "secret1",
		Phone:    "0712345678",
	}
}

func (e *testEnv) register(t *testing.T, clientID string, data RegisterData) models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), clientID, data)
	require.NoError(t, err)
	return user
}

func (e *testEnv) eventTypes(t *testing.T, clientID string) []string {
	t.Helper()
	events, err := e.events.GetRecentEvents(context.Background(), clientID, 50)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}
