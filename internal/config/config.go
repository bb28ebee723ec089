// Package config loads the process-wide configuration from the environment.
//
// The configuration is read exactly once at startup and passed explicitly
// into the components that need it (token manager, mailer, stores). Nothing
// in the codebase reads environment variables at call time.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server needs. Zero values are replaced by
// the env defaults below; required values without defaults fail Load.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8000"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"*"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	OTPTTL time.Duration `env:"OTP_TTL" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	MailUsername string `env:"MAIL_USERNAME"`
	MailPassword string `env:"MAIL_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"NextJob <no-reply@nextjob.dev>"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		return errors.New("config: OTP_TTL must be positive")
	}
	return nil
}

// Production reports whether the server runs in production mode. Outside
// production, error responses include the underlying diagnostic string.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// MailConfigured reports whether SMTP delivery is usable. When false the
// server falls back to logging outbound mail instead of sending it.
func (c Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.MailUsername != "" && c.MailPassword != ""
}
