package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppMaxBodyBytes   int64         `envconfig:"APP_MAX_BODY_BYTES" default:"1048576"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	PGDSN string `envconfig:"PG_DSN" required:"true"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	TokenSecret       string        `envconfig:"AUTH_TOKEN_SECRET" required:"true"`
	LegacyTokenSecret string        `envconfig:"AUTH_LEGACY_SECRET" default:""`
	TokenTTL          time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	TokenCookieName   string        `envconfig:"AUTH_COOKIE_NAME" default:"folio_token"`

	RateLimit       int           `envconfig:"RATE_LIMIT" default:"60"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	NotifyEmail string `envconfig:"NOTIFY_EMAIL" default:""`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.TokenSecret == "" {
		return nil, errors.New("token signing secret must be provided")
	}
	if cfg.PGDSN == "" {
		return nil, errors.New("postgres dsn must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
