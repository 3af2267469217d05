package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kearnsw/rsvp/internal/config"
	"github.com/kearnsw/rsvp/internal/library"
	"github.com/kearnsw/rsvp/internal/logging"
	"github.com/kearnsw/rsvp/internal/tui"
)

func main() {
	dataDir := flag.String("data-dir", "", "override the library directory (default: user config dir)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("failed to load configuration:", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	level := cfg.SlogLevel()
	if *debug {
		level = slog.LevelDebug
	}
	// Stderr belongs to the terminal UI, so logs mirror there only when
	// debugging outside the alternate screen.
	log, closeLog, err := logging.Setup(cfg.DataDir, level, *debug && *noAltScreen)
	if err != nil {
		fmt.Println("failed to open log file:", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := library.Open(cfg.DataDir, log)
	if err != nil {
		fmt.Println("failed to open library:", err)
		os.Exit(1)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Store:      store,
			DefaultWPM: cfg.DefaultWPM,
			Log:        log,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
