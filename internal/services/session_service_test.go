package services

import (
	"context"
	"testing"

	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_State(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		currentUser string
		verified    string
		wantAuth    bool
		wantDialog  bool
		wantPaid    bool
	}{
		{name: "fresh client"},
		{name: "verified flag without user", verified: "true"},
		{name: "user without payment", currentUser: `{"id":"1","name":"A"}`, wantDialog: true},
		{name: "user with payment", currentUser: `{"id":"1","name":"A"}`, verified: "true", wantAuth: true, wantPaid: true},
		{name: "flag must be exactly true", currentUser: `{"id":"1","name":"A"}`, verified: "TRUE", wantDialog: true},
		{name: "unreadable user", currentUser: "{", verified: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			if tt.currentUser != "" {
				require.NoError(t, store.SetItem(ctx, testClient, storage.KeyCurrentUser, tt.currentUser))
			}
			if tt.verified != "" {
				require.NoError(t, store.SetItem(ctx, testClient, storage.KeyPaymentVerified, tt.verified))
			}

			state, err := NewSessionService(store, nil, nil).State(ctx, testClient)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, state.Authenticated)
			assert.Equal(t, tt.wantDialog, state.ShowPaymentDialog)
			assert.Equal(t, tt.wantPaid, state.PaymentVerified)
			assert.Equal(t, tt.wantAuth && tt.wantPaid, state.CanViewDashboard())
		})
	}
}

func TestSessionService_SetCurrentUserStoresSanitizedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, testClient, validRegistration())

	raw, ok, err := env.store.GetItem(ctx, testClient, storage.KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "passwordHash")
	assert.Contains(t, raw, `"name":"Wanjiku Kamau"`)
}

func TestSessionService_Logout(t *testing.T) {
	for _, verified := range []bool{false, true} {
		env := newTestEnv(t)
		ctx := context.Background()

		env.register(t, testClient, validRegistration())
		if verified {
			require.NoError(t, env.sessions.SetPaymentVerified(ctx, testClient))
		}

		require.NoError(t, env.sessions.Logout(ctx, testClient))

		_, ok, err := env.store.GetItem(ctx, testClient, storage.KeyCurrentUser)
		require.NoError(t, err)
		assert.False(t, ok)

		state, err := env.sessions.State(ctx, testClient)
		require.NoError(t, err)
		assert.False(t, state.Authenticated)
		assert.False(t, state.ShowPaymentDialog)

		published, ok := env.notifier.last(testClient)
		require.True(t, ok)
		assert.Nil(t, published.CurrentUser)

		assert.Contains(t, env.eventTypes(t, testClient), EventLogout)
	}
}

func TestSessionService_LogoutWithoutUser(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.sessions.Logout(context.Background(), testClient))
	assert.NotContains(t, env.eventTypes(t, testClient), EventLogout)
}
