package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/kearnsw/rsvp/internal/tuitest"
)

func TestReaderStartsAndShowsHelp(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	dataDir := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-data-dir", dataDir},
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: []byte("?")},
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"import", "Keyboard Shortcuts", "Start/pause reading"} {
		if !rec.Contains(want) {
			t.Errorf("output missing %q\n---- plain output ----\n%s", want, rec.Plain())
		}
	}
}

func TestImportAndReadFlow(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	dataDir := t.TempDir()

	bookPath := filepath.Join(t.TempDir(), "fable.txt")
	body := "the tortoise beat the hare by refusing to stop"
	if err := os.WriteFile(bookPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-data-dir", dataDir},
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: []byte("i")},
			{Delay: 200 * time.Millisecond, Input: []byte(bookPath)},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEnter},
			{Delay: time.Second},
			{Input: tuitest.KeyRight},
			{Delay: 500 * time.Millisecond},
			{Input: []byte("q")},
		},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"Imported: fable", "WPM: 300", "fable"} {
		if !rec.Contains(want) {
			t.Errorf("output missing %q\n---- plain output ----\n%s", want, rec.Plain())
		}
	}

	// Quitting persists progress: the advanced cursor must be on disk.
	catalog, err := os.ReadFile(filepath.Join(dataDir, "library.json"))
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if !strings.Contains(string(catalog), `"cursor": 1`) {
		t.Fatalf("catalog missing persisted cursor:\n%s", catalog)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "rsvp-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
