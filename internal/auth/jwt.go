package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientCookieName is the cookie carrying the signed client token.
const ClientCookieName = "client"

// Claims defines the JWT claims structure. A token identifies one browser.
type Claims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

type contextKey string

// ClientIDKey is the context key for the client ID.
const ClientIDKey = contextKey("clientID")

// TokenManager issues and validates client tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
}

// NewTokenManager creates a TokenManager signing with secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{key: []byte(secret), ttl: ttl}
}

// GenerateJWT creates a new token for a client.
func (m *TokenManager) GenerateJWT(clientID string) (string, time.Time, error) {
	expirationTime := time.Now().Add(m.ttl)
	claims := &Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	return signed, expirationTime, err
}

// ValidateJWT parses and validates a token string.
func (m *TokenManager) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ClientID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// NeedsRefresh reports whether a token has used up half of its lifetime.
func (m *TokenManager) NeedsRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return time.Until(claims.ExpiresAt.Time) < m.ttl/2
}

// ClientMiddleware makes sure every request carries a client identity. A
// browser without a valid token is given a new client ID and cookie, the way a
// fresh browser starts with empty local storage. Tokens past half their
// lifetime are re-issued for the same client ID.
func ClientMiddleware(m *TokenManager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var clientID string
			issue := true

			if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
				if claims, err := m.ValidateJWT(cookie.Value); err == nil {
					clientID = claims.ClientID
					issue = m.NeedsRefresh(claims)
				} else {
					log.Debug().Err(err).Msg("Replacing invalid client token")
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
			}

			if issue {
				token, expires, err := m.GenerateJWT(clientID)
				if err != nil {
					log.Error().Err(err).Msg("Failed to generate client token")
					http.Error(w, "Failed to generate token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    token,
					Expires:  expires,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Path:     "/",
				})
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientID returns the client ID stored by ClientMiddleware.
func ClientID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ClientIDKey).(string)
	return id, ok && id != ""
}
