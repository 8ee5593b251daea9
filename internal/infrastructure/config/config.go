package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	Pool      PoolConfig
	Index     IndexConfig
	Search    SearchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// SessionConfig holds tab session configuration.
type SessionConfig struct {
	// ChromeOffset is the height of the tab bar; surfaces are positioned
	// below it and sized to the remaining window area.
	ChromeOffset float64 `envconfig:"SESSION_CHROME_OFFSET" default:"38"`
	InitialTitle string  `envconfig:"SESSION_INITIAL_TITLE" default:"Library"`
}

// PoolConfig holds surface pool configuration.
type PoolConfig struct {
	TargetSize int  `envconfig:"POOL_TARGET_SIZE" default:"2"`
	Enabled    bool `envconfig:"POOL_ENABLED" default:"true"`
}

// IndexConfig holds file index configuration.
type IndexConfig struct {
	// ContentType selects which documents the enumerator picks up.
	ContentType string `envconfig:"INDEX_CONTENT_TYPE" default:"text/markdown"`
	// Extensions supplements the content-type derived extension list.
	Extensions []string `envconfig:"INDEX_EXTENSIONS" default:".markdown"`
	// StaleAfter is the focus-triggered refresh threshold.
	StaleAfter time.Duration `envconfig:"INDEX_STALE_AFTER" default:"30s"`
	// Excludes are doublestar globs, relative to the root, pruned from
	// enumeration.
	Excludes []string `envconfig:"INDEX_EXCLUDES" default:""`
	// Root overrides the home directory as the enumeration root.
	Root string `envconfig:"INDEX_ROOT" default:""`
}

// SearchConfig holds fuzzy search configuration.
type SearchConfig struct {
	MaxResults int `envconfig:"SEARCH_MAX_RESULTS" default:"20"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "127.0.0.1",
		},
		Session: SessionConfig{
			ChromeOffset: 38,
			InitialTitle: "Library",
		},
		Pool: PoolConfig{
			TargetSize: 2,
			Enabled:    true,
		},
		Index: IndexConfig{
			ContentType: "text/markdown",
			Extensions:  []string{".markdown"},
			StaleAfter:  30 * time.Second,
		},
		Search: SearchConfig{
			MaxResults: 20,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
