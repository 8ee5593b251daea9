package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Session config
	assert.Equal(t, float64(38), cfg.Session.ChromeOffset)
	assert.Equal(t, "Library", cfg.Session.InitialTitle)

	// Pool config
	assert.Equal(t, 2, cfg.Pool.TargetSize)
	assert.True(t, cfg.Pool.Enabled)

	// Index config
	assert.Equal(t, "text/markdown", cfg.Index.ContentType)
	assert.Equal(t, 30*time.Second, cfg.Index.StaleAfter)
	assert.Empty(t, cfg.Index.Root)

	// Search config
	assert.Equal(t, 20, cfg.Search.MaxResults)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"HOST":                  "0.0.0.0",
		"SESSION_CHROME_OFFSET": "44",
		"POOL_TARGET_SIZE":      "4",
		"POOL_ENABLED":          "false",
		"INDEX_CONTENT_TYPE":    "application/pdf",
		"INDEX_STALE_AFTER":     "1m",
		"INDEX_ROOT":            "/srv/docs",
		"SEARCH_MAX_RESULTS":    "50",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
		"RATE_LIMIT_ENABLED":    "false",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, float64(44), cfg.Session.ChromeOffset)
	assert.Equal(t, 4, cfg.Pool.TargetSize)
	assert.False(t, cfg.Pool.Enabled)
	assert.Equal(t, "application/pdf", cfg.Index.ContentType)
	assert.Equal(t, time.Minute, cfg.Index.StaleAfter)
	assert.Equal(t, "/srv/docs", cfg.Index.Root)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("POOL_TARGET_SIZE", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
