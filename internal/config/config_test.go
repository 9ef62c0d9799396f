package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "https://portal.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 30*time.Second, cfg.Portal.Timeout)
	assert.Equal(t, 60, cfg.Redis.RequestsPerMinute)
	assert.Equal(t, 2*time.Hour, cfg.Session.MaxIdle)
	assert.Equal(t, 5, cfg.Session.DefaultJobCount)
	assert.False(t, cfg.HistoryEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "http://localhost:5000")
	t.Setenv("PORTAL_TIMEOUT", "10s")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/jobpilot")
	t.Setenv("JOBPILOT_PORT", "9090")
	t.Setenv("SESSION_MAX_IDLE", "30m")
	t.Setenv("DEFAULT_JOB_COUNT", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Portal.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Portal.Timeout)
	assert.Equal(t, 120, cfg.Redis.RequestsPerMinute)
	assert.Equal(t, 30*time.Minute, cfg.Session.MaxIdle)
	assert.Equal(t, 8, cfg.Session.DefaultJobCount)
	assert.True(t, cfg.HistoryEnabled())
}

func TestLoadMissingPortalURL(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORTAL_BASE_URL")
}

func TestLoadBadPortalScheme(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "portal.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://")
}

func TestLoadMissingRedisURL(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "https://portal.example.com")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadJobCountOutOfRange(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "https://portal.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DEFAULT_JOB_COUNT", "12")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_JOB_COUNT")
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("JOBPILOT_PORT", "not-a-number")
	t.Setenv("PORTAL_TIMEOUT", "soon")
	t.Setenv("PORTAL_BASE_URL", "https://portal.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Portal.Timeout)
}
