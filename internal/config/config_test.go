package config

import (
	"log/slog"
	"testing"
)

func TestLoadUsesEnvironmentOverrides(t *testing.T) {
	t.Setenv("RSVP_DATA_DIR", "/tmp/rsvp-test")
	t.Setenv("RSVP_DEFAULT_WPM", "400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/tmp/rsvp-test" {
		t.Fatalf("DataDir = %q, want /tmp/rsvp-test", cfg.DataDir)
	}
	if cfg.DefaultWPM != 400 {
		t.Fatalf("DefaultWPM = %d, want 400", cfg.DefaultWPM)
	}
}

func TestLoadClampsDefaultSpeed(t *testing.T) {
	t.Setenv("RSVP_DATA_DIR", t.TempDir())
	t.Setenv("RSVP_DEFAULT_WPM", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultWPM != 2000 {
		t.Fatalf("DefaultWPM = %d, want clamped 2000", cfg.DefaultWPM)
	}
}

func TestLoadFallsBackToUserConfigDir(t *testing.T) {
	t.Setenv("RSVP_DATA_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir == "" {
		t.Fatal("DataDir should default to a user config path")
	}
}

func TestSlogLevelMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		cfg := Config{LogLevel: tc.name}
		if got := cfg.SlogLevel(); got != tc.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
