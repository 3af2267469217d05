// Package tuitest drives the compiled reader binary inside a pseudo
// terminal so integration tests can script keystrokes and inspect what
// was drawn.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 100
	defaultHeight  = 30
	defaultTimeout = 10 * time.Second
)

// Step is one scripted interaction: wait Delay, then write Input to the
// terminal. Either part may be zero.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Config describes how to spawn and drive the program under test.
type Config struct {
	Command []string
	Dir     string
	Env     []string
	Width   int
	Height  int
	Steps   []Step
	Timeout time.Duration
}

// Recording holds every byte the program wrote to the terminal.
type Recording struct {
	Raw      []byte
	Duration time.Duration
}

// Plain returns the captured stream with ANSI escape sequences removed,
// suitable for substring assertions.
func (r *Recording) Plain() string {
	return stripANSI(string(r.Raw))
}

// Contains reports whether the plain-text stream includes s.
func (r *Recording) Contains(s string) bool {
	return strings.Contains(r.Plain(), s)
}

// Run spawns the command inside a PTY, replays the scripted steps, and
// waits for a clean exit. SIGINT exits are tolerated because the script
// may finish with ctrl+c.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var output bytes.Buffer
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		var tail []byte
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				tail = answerQueries(ptmx, append(tail, chunk...))
				_, _ = output.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for _, step := range cfg.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil && !strings.Contains(err.Error(), "signal: interrupt") {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-copyDone

	return &Recording{Raw: output.Bytes(), Duration: time.Since(start)}, nil
}

// terminalQueries are the capability probes bubbletea and termenv emit
// on startup. Each needs an answer or the program stalls waiting.
var terminalQueries = []struct{ query, reply []byte }{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

func answerQueries(w io.Writer, buf []byte) []byte {
	for {
		matched := false
		for _, q := range terminalQueries {
			if idx := bytes.Index(buf, q.query); idx >= 0 {
				buf = buf[idx+len(q.query):]
				_, _ = w.Write(q.reply)
				matched = true
			}
		}
		if !matched {
			break
		}
	}
	// Keep a short tail for sequences split across reads.
	if len(buf) > 256 {
		buf = buf[len(buf)-64:]
	}
	return buf
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x0f", "")
	s = strings.ReplaceAll(s, "\x0e", "")
	return s
}

// Keystrokes used by the integration scripts.
var (
	KeyEnter = []byte{'\r'}
	KeyEsc   = []byte{27}
	KeyCtrlC = []byte{3}
	KeySpace = []byte{' '}
	KeyUp    = []byte("\x1b[A")
	KeyDown  = []byte("\x1b[B")
	KeyRight = []byte("\x1b[C")
	KeyLeft  = []byte("\x1b[D")
)
