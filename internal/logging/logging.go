// Package logging configures the process-wide slog logger. The TUI owns
// stdout, so logs land in a file under the data dir; debug runs outside
// the alternate screen may fan out to stderr as well.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

const logFileName = "rsvp.log"

// Setup opens the log file under dir and returns a logger plus a close
// function for shutdown.
func Setup(dir string, level slog.Level, alsoStderr bool) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(file, opts)}
	if alsoStderr {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}
	logger := slog.New(slogmulti.Fanout(handlers...))
	return logger, file.Close, nil
}
