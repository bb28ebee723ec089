package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.MailConfigured())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADDR", ":9090")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_USERNAME", "mailer")
	t.Setenv("MAIL_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.Production())
	assert.True(t, cfg.MailConfigured())
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := Config{JWTSecret: "s", TokenTTL: 0, OTPTTL: time.Minute}
	assert.Error(t, cfg.Validate())

	cfg = Config{JWTSecret: "s", TokenTTL: time.Hour, OTPTTL: 0}
	assert.Error(t, cfg.Validate())
}
