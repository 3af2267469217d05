// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/kearnsw/rsvp/internal/document"
)

const appDirName = "rsvp-reader"

// Config carries the runtime settings the reader needs before the TUI
// starts. Flags may override individual fields after Load.
type Config struct {
	// DataDir holds the catalog, the text bodies, and the log file.
	DataDir string `env:"RSVP_DATA_DIR"`
	// DefaultWPM seeds the speed for newly imported documents.
	DefaultWPM int `env:"RSVP_DEFAULT_WPM" envDefault:"300"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"RSVP_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and fills in platform defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, appDirName)
	}
	cfg.DefaultWPM = document.ClampWPM(cfg.DefaultWPM)
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog's levels, defaulting
// to Info for anything unrecognized.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
