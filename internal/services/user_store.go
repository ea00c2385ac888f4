package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/isdelr/wsquared-be/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const bcryptMaxInput = 72

// UserStoreProvider defines the interface for the per-client user collection.
type UserStoreProvider interface {
	SaveUser(ctx context.Context, clientID string, user models.User) error
	FindUserByEmail(ctx context.Context, clientID, email string) (models.User, error)
	ValidateCredentials(ctx context.Context, clientID, email, password string) (models.User, error)
}

// UserStore keeps registered users as a JSON array under the "users" key of
// the client's storage.
type UserStore struct {
	store storage.Store
	mu    sync.Mutex // serializes read-modify-write of a users collection
}

// NewUserStore creates a new UserStore.
func NewUserStore(store storage.Store) *UserStore {
	return &UserStore{store: store}
}

// SaveUser appends user to the collection. Uniqueness is the caller's concern.
func (s *UserStore) SaveUser(ctx context.Context, clientID string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx, clientID)
	if err != nil {
		return err
	}
	users = append(users, user)

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.store.SetItem(ctx, clientID, storage.KeyUsers, string(raw))
}

// FindUserByEmail returns the user registered with exactly this email.
func (s *UserStore) FindUserByEmail(ctx context.Context, clientID, email string) (models.User, error) {
	users, err := s.loadUsers(ctx, clientID)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// ValidateCredentials returns the user only when both email and password match.
func (s *UserStore) ValidateCredentials(ctx context.Context, clientID, email, password string) (models.User, error) {
	user, err := s.FindUserByEmail(ctx, clientID, email)
	if err == ErrUserNotFound {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), bcryptInput(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserStore) loadUsers(ctx context.Context, clientID string) ([]models.User, error) {
	raw, ok, err := s.store.GetItem(ctx, clientID, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// bcrypt only reads 72 bytes, so longer passwords are digested first.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
