// Package config loads tracklog settings from TRACKLOG_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings for tracklog.
// Example: TRACKLOG_DB_PATH, TRACKLOG_OLLAMA_MODEL, TRACKLOG_WINDOW_DAYS
type Config struct {
	// Empty means ~/.tracklog/tracklog.db
	DBPath string `envconfig:"DB_PATH" default:""`

	// Ollama text-completion endpoint used by `tracklog ask`
	OllamaURL   string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string        `envconfig:"OLLAMA_MODEL" default:"llama3.2"`
	AskTimeout  time.Duration `envconfig:"ASK_TIMEOUT" default:"90s"`
	AskRetries  int           `envconfig:"ASK_RETRIES" default:"2"`

	// Bounds for every log fetch
	WindowDays int `envconfig:"WINDOW_DAYS" default:"90"`
	QueryLimit int `envconfig:"QUERY_LIMIT" default:"1000"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// Validate checks the numeric bounds.
func (c *Config) Validate() error {
	if c.WindowDays < 1 {
		return fmt.Errorf("WINDOW_DAYS must be positive, got %d", c.WindowDays)
	}
	if c.QueryLimit < 1 {
		return fmt.Errorf("QUERY_LIMIT must be positive, got %d", c.QueryLimit)
	}
	if c.AskTimeout <= 0 {
		return fmt.Errorf("ASK_TIMEOUT must be positive, got %s", c.AskTimeout)
	}
	if c.AskRetries < 0 {
		return fmt.Errorf("ASK_RETRIES must not be negative, got %d", c.AskRetries)
	}
	return nil
}

// New creates a Config by parsing environment variables prefixed with TRACKLOG_.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRACKLOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewForTesting returns defaults without reading the environment.
func NewForTesting() *Config {
	return &Config{
		DBPath:      ":memory:",
		OllamaURL:   "http://localhost:11434",
		OllamaModel: "llama3.2",
		AskTimeout:  5 * time.Second,
		AskRetries:  0,
		WindowDays:  90,
		QueryLimit:  1000,
		LogLevel:    "disabled",
	}
}
