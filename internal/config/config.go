package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the jobpilot gateway.
type Config struct {
	Server   ServerConfig
	Portal   PortalConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type PortalConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	URL               string
	RequestsPerMinute int
}

// DatabaseConfig configures the application-history ledger. URL may be empty,
// which disables history recording entirely.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	MaxIdle         time.Duration
	DefaultJobCount int
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value is
// missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("JOBPILOT_PORT", 8080),
			Env:  envString("JOBPILOT_ENV", "development"),
		},
		Portal: PortalConfig{
			BaseURL: os.Getenv("PORTAL_BASE_URL"),
			Timeout: envDuration("PORTAL_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:               os.Getenv("REDIS_URL"),
			RequestsPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Session: SessionConfig{
			MaxIdle:         envDuration("SESSION_MAX_IDLE", 2*time.Hour),
			DefaultJobCount: envInt("DEFAULT_JOB_COUNT", 5),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("PORTAL_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Portal.BaseURL, "http://") && !strings.HasPrefix(c.Portal.BaseURL, "https://") {
		return fmt.Errorf("PORTAL_BASE_URL must start with http:// or https://, got %q", c.Portal.BaseURL)
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Session.DefaultJobCount < 1 || c.Session.DefaultJobCount > 8 {
		return fmt.Errorf("DEFAULT_JOB_COUNT must be between 1 and 8, got %d", c.Session.DefaultJobCount)
	}

	return nil
}

// HistoryEnabled reports whether the application-history ledger is configured.
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
