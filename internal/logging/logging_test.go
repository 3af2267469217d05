package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, closeLog, err := Setup(dir, slog.LevelInfo, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	log.Info("session started", "wpm", 300)
	log.Debug("dropped below level")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session started") || !strings.Contains(out, "wpm=300") {
		t.Fatalf("log missing info record:\n%s", out)
	}
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("debug record should be filtered:\n%s", out)
	}
}

func TestSetupAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		log, closeLog, err := Setup(dir, slog.LevelInfo, false)
		if err != nil {
			t.Fatalf("setup %d: %v", i, err)
		}
		log.Info("run", "n", i)
		if err := closeLog(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "msg=run"); got != 2 {
		t.Fatalf("records = %d, want 2:\n%s", got, data)
	}
}
