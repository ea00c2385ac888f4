package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./wsquared.db"`
	// StorageDriver selects the client storage backend: "sqlite" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	ClientTokenTTL time.Duration `env:"CLIENT_TOKEN_TTL" envDefault:"8760h"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	PaymentVerifyDelay time.Duration `env:"PAYMENT_VERIFY_DELAY" envDefault:"1500ms"`
	PaymentAmountKES   int           `env:"PAYMENT_AMOUNT_KES" envDefault:"500"`
	PaybillNumber      string        `env:"PAYBILL_NUMBER" envDefault:"247247"`
	PaybillAccount     string        `env:"PAYBILL_ACCOUNT" envDefault:"0930185656575"`
	SupportEmail       string        `env:"SUPPORT_EMAIL" envDefault:"support@w-squared.com"`

	SweepSchedule    string        `env:"SWEEP_SCHEDULE" envDefault:"@every 1h"`
	StorageRetention time.Duration `env:"STORAGE_RETENTION" envDefault:"720h"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.PaymentVerifyDelay < 0 {
		return fmt.Errorf("PAYMENT_VERIFY_DELAY must not be negative")
	}
	return nil
}
