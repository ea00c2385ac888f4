package services

import (
	"context"
	"testing"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(storage.NewMemoryStore())

	_, err := s.FindUserByEmail(ctx, testClient, "a@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	a := models.User{ID: "1", Name: "A", Email: "a@example.com", PasswordHash: hashed(t, "secret1"), Phone: "0712345678"}
	b := models.User{ID: "2", Name: "B", Email: "b@example.com", PasswordHash: hashed(t, "secret2"), Phone: "0112345678"}
	require.NoError(t, s.SaveUser(ctx, testClient, a))
	require.NoError(t, s.SaveUser(ctx, testClient, b))

	got, err := s.FindUserByEmail(ctx, testClient, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	// lookups are exact
	_, err = s.FindUserByEmail(ctx, testClient, "B@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// other clients do not see the collection
	_, err = s.FindUserByEmail(ctx, "other", "a@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStore_SaveDoesNotEnforceUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(storage.NewMemoryStore())

	u := models.User{ID: "1", Email: "a@example.com"}
	require.NoError(t, s.SaveUser(ctx, testClient, u))
	require.NoError(t, s.SaveUser(ctx, testClient, models.User{ID: "2", Email: "a@example.com"}))

	got, err := s.FindUserByEmail(ctx, testClient, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID, "first record wins")
}

func TestUserStore_ValidateCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(storage.NewMemoryStore())
	u := models.User{ID: "1", Email: "a@example.com", PasswordHash: hashed(t, "Secret1")}
	require.NoError(t, s.SaveUser(ctx, testClient, u))

	got, err := s.ValidateCredentials(ctx, testClient, "a@example.com", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	for _, tc := range []struct{ email, password string }{
		{"a@example.com", "secret1"},
		{"a@example.com", "Secret12"},
		{"a@example.com", ""},
		{"A@example.com", "Secret1"},
		{"nobody@example.com", "Secret1"},
	} {
		_, err := s.ValidateCredentials(ctx, testClient, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.email, tc.password)
	}
}

func TestUserStore_CorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetItem(ctx, testClient, storage.KeyUsers, "{not json"))

	s := NewUserStore(store)
	_, err := s.FindUserByEmail(ctx, testClient, "a@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	err = s.SaveUser(ctx, testClient, models.User{ID: "1"})
	assert.Error(t, err)
}
