package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isdelr/wsquared-be/internal/models"
)

const minPasswordLength = 6

// Safaricom (07...) and Airtel (01...) mobile numbers in local format.
var phonePattern = regexp.MustCompile(`^0[17]\d{8}$`)

// LoginData holds the fields of the login form.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData holds the fields of the registration form.
type RegisterData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Validate checks the form in the order the user is told about problems.
func (d RegisterData) Validate() error {
	if d.Name == "" || d.Email == "" || d.Password == "" || d.Phone == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(d.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if !ValidPhone(d.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidPhone reports whether phone is a Safaricom or Airtel number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// AuthServiceProvider defines the interface for the login and registration flows.
type AuthServiceProvider interface {
	Login(ctx context.Context, clientID string, data LoginData) (models.User, error)
	Register(ctx context.Context, clientID string, data RegisterData) (models.User, error)
}

// AuthService implements the login and registration modes of the auth view.
type AuthService struct {
	users    UserStoreProvider
	sessions SessionServiceProvider
	events   EventServiceProvider
	mu       sync.Mutex // makes the duplicate check and save of Register atomic
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStoreProvider, sessions SessionServiceProvider, events EventServiceProvider) *AuthService {
	return &AuthService{users: users, sessions: sessions, events: events, now: time.Now}
}

// Login validates the credentials and makes the user the client's current user.
func (s *AuthService) Login(ctx context.Context, clientID string, data LoginData) (models.User, error) {
	user, err := s.users.ValidateCredentials(ctx, clientID, data.Email, data.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			recordEvent(ctx, s.events, clientID, EventLoginFailed, "warn",
				fmt.Sprintf("Failed sign-in attempt for '%s'.", data.Email))
		}
		return models.User{}, err
	}

	if err := s.sessions.SetCurrentUser(ctx, clientID, user); err != nil {
		return models.User{}, fmt.Errorf("store current user: %w", err)
	}

	recordEvent(ctx, s.events, clientID, EventLogin, "info", fmt.Sprintf("User '%s' signed in.", user.Email))
	s.sessions.Publish(ctx, clientID)
	return user.Sanitized(), nil
}

// Register creates a new user, signs them in and resets any previous
// payment verification held by the client.
func (s *AuthService) Register(ctx context.Context, clientID string, data RegisterData) (models.User, error) {
	if err := data.Validate(); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.users.FindUserByEmail(ctx, clientID, data.Email)
	switch {
	case err == nil:
		return models.User{}, ErrEmailTaken
	case !errors.Is(err, ErrUserNotFound):
		return models.User{}, err
	}

	hash, err := HashPassword(data.Password)
	if err != nil {
		return models.User{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.User{}, fmt.Errorf("generate user id: %w", err)
	}

	user := models.User{
		ID:           id.String(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
		Phone:        data.Phone,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.SaveUser(ctx, clientID, user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	if err := s.sessions.SetCurrentUser(ctx, clientID, user); err != nil {
		return models.User{}, fmt.Errorf("store current user: %w", err)
	}
	if err := s.sessions.ResetPaymentVerified(ctx, clientID); err != nil {
		return models.User{}, fmt.Errorf("reset payment flag: %w", err)
	}

	recordEvent(ctx, s.events, clientID, EventRegister, "info", fmt.Sprintf("Account created for '%s'.", user.Email))
	s.sessions.Publish(ctx, clientID)
	return user.Sanitized(), nil
}
