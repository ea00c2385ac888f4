package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, c.ServerPort)
	assert.Equal(t, "./wsquared.db", c.DatabasePath)
	assert.Equal(t, "sqlite", c.StorageDriver)
	assert.Equal(t, 1500*time.Millisecond, c.PaymentVerifyDelay)
	assert.Equal(t, 500, c.PaymentAmountKES)
	assert.Equal(t, "247247", c.PaybillNumber)
	assert.Equal(t, "0930185656575", c.PaybillAccount)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, c.StorageRetention)
	assert.False(t, c.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PAYMENT_VERIFY_DELAY", "10ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, c.ServerPort)
	assert.True(t, c.IsProduction())
	assert.Equal(t, "memory", c.StorageDriver)
	assert.Equal(t, 10*time.Millisecond, c.PaymentVerifyDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "PORT", "not-a-number"},
		{"port out of range", "PORT", "70000"},
		{"unknown driver", "STORAGE_DRIVER", "postgres"},
		{"negative delay", "PAYMENT_VERIFY_DELAY", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
