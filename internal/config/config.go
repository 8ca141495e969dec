// Package config reads client configuration from flags, environment and .env files.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the settings the storefront client needs to talk to the backend.
type Config struct {
	APIBaseURL     string        `env:"BAZAARX_API_URL"`
	StateDir       string        `env:"BAZAARX_STATE_DIR"`
	RequestTimeout time.Duration `env:"BAZAARX_TIMEOUT"`
	LogLevel       string        `env:"BAZAARX_LOG_LEVEL"`
}

// Parse merges a .env file (if present), environment variables and command-line
// flags. Environment takes precedence over flags.
func Parse() (*Config, error) {
	// Missing .env is not an error; explicit env always wins over file values.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envBaseURL := cfg.APIBaseURL
	envStateDir := cfg.StateDir
	envTimeout := cfg.RequestTimeout
	envLogLevel := cfg.LogLevel

	flag.StringVar(&cfg.APIBaseURL, "api", "http://localhost:8080", "backend base URL")
	flag.StringVar(&cfg.StateDir, "state-dir", "", "directory for the persisted session (default: user config dir)")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", 15*time.Second, "per-request timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug/info/warn/error)")

	flag.Parse()

	if envBaseURL != "" {
		cfg.APIBaseURL = envBaseURL
	}
	if envStateDir != "" {
		cfg.StateDir = envStateDir
	}
	if envTimeout != 0 {
		cfg.RequestTimeout = envTimeout
	}
	if envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}

	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	return cfg, nil
}

func defaultStateDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "bazaarx")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bazaarx")
}
