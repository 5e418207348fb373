package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "portal.db", cfg.Database.Path)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.True(t, cfg.SMTP.TLS)
	require.False(t, cfg.SMTP.SSL)
	require.Equal(t, 10*time.Second, cfg.SMTP.Timeout)
	require.Equal(t, "admin@example.com", cfg.SMTP.From)
	require.Equal(t, 64, cfg.Notify.QueueSize)
	require.Equal(t, 1, cfg.Notify.Workers)
	require.False(t, cfg.GuardPublicPages)
	require.Equal(t, 10, cfg.LoginRateLimit)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "mailer@example.com")
	t.Setenv("SMTP_TIMEOUT", "3s")
	t.Setenv("GUARD_PUBLIC_PAGES", "true")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	require.Equal(t, "mailer@example.com", cfg.SMTP.From)
	require.Equal(t, 3*time.Second, cfg.SMTP.Timeout)
	require.True(t, cfg.GuardPublicPages)
	require.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	_, err := FromEnv()
	require.ErrorContains(t, err, "SESSION_SECRET")
}

func TestFromEnv_MissingAdminEmail(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("ADMIN_EMAIL", "")

	_, err := FromEnv()
	require.ErrorContains(t, err, "ADMIN_EMAIL")
}

func TestFromEnv_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_PORT", "not-a-number")

	_, err := FromEnv()
	require.ErrorContains(t, err, "SMTP_PORT")

	t.Setenv("SMTP_PORT", "")
	t.Setenv("COOKIE_SECURE", "maybe")
	_, err = FromEnv()
	require.ErrorContains(t, err, "COOKIE_SECURE")

	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("NOTIFY_WORKERS", "0")
	_, err = FromEnv()
	require.Error(t, err)
}
