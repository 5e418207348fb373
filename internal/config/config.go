// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	SMTP     SMTPConfig
	Notify   NotifyConfig
	Logging  LoggingConfig

	// AdminEmail receives contact form notifications
	AdminEmail string
	// GuardPublicPages puts /home and /about behind the login check
	GuardPublicPages bool
	// LoginRateLimit is the number of credential POSTs allowed per IP per minute
	LoginRateLimit int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int
	GinMode string
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// SMTPConfig holds SMTP server configuration.
// An empty Host means messages are logged instead of sent.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
	SSL      bool
	Timeout  time.Duration
}

// NotifyConfig sizes the background notification dispatcher
type NotifyConfig struct {
	QueueSize int
	Workers   int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.Server.Port, err = envInt("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	cfg.Server.GinMode = os.Getenv("GIN_MODE")

	cfg.Database.Path = getEnv("DATABASE_PATH", "portal.db")

	cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Session.TTL, err = envDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Session.CookieSecure, err = envBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	if cfg.SMTP.Port, err = envInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.Username)
	if cfg.SMTP.TLS, err = envBool("SMTP_TLS", true); err != nil {
		return nil, err
	}
	if cfg.SMTP.SSL, err = envBool("SMTP_SSL", false); err != nil {
		return nil, err
	}
	if cfg.SMTP.Timeout, err = envDuration("SMTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is required")
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.AdminEmail
	}

	if cfg.Notify.QueueSize, err = envInt("NOTIFY_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.Notify.Workers, err = envInt("NOTIFY_WORKERS", 1); err != nil {
		return nil, err
	}
	if cfg.Notify.QueueSize < 1 || cfg.Notify.Workers < 1 {
		return nil, fmt.Errorf("NOTIFY_QUEUE_SIZE and NOTIFY_WORKERS must be positive")
	}

	if cfg.GuardPublicPages, err = envBool("GUARD_PUBLIC_PAGES", false); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = envInt("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
