// Package engine drives playback for one open document. A Session owns the
// document cursor, the play/pause state machine, and the timed advance
// loop, and publishes a snapshot event on every state change for the
// rendering layer to consume.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kearnsw/rsvp/internal/document"
	"github.com/kearnsw/rsvp/internal/text"
)

// PlaybackState is the session's playback mode. It is never persisted.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Event is the snapshot handed to the renderer on every change: the word
// under the cursor with its highlight offset, plus position and state.
// Token is empty once the cursor is past the last word.
type Event struct {
	Token    string
	ORPIndex int
	Cursor   int
	Total    int
	State    PlaybackState
	SpeedWPM int
}

// eventBuffer sizes the outbound channel. Every event carries the full
// snapshot, so dropping an intermediate one when the renderer lags is
// harmless.
const eventBuffer = 64

// Session serializes every cursor mutation behind one mutex: the clock
// goroutine and command calls never interleave, and any navigation issued
// while playing pauses the clock first.
type Session struct {
	mu     sync.Mutex
	doc    *document.Document
	state  PlaybackState
	wpm    int
	gen    uint64
	cancel chan struct{}
	events chan Event
	log    *slog.Logger
}

// NewSession opens a session over doc at the given speed (clamped) in the
// Paused state, ready to play.
func NewSession(doc *document.Document, wpm int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		doc:    doc,
		state:  Paused,
		wpm:    document.ClampWPM(wpm),
		events: make(chan Event, eventBuffer),
		log:    logger,
	}
}

// Events returns the channel the session publishes snapshots on.
func (s *Session) Events() <-chan Event { return s.events }

// Snapshot returns the current state without mutating anything, for the
// initial render.
func (s *Session) Snapshot() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Document returns the open document. The session retains ownership of the
// cursor; callers should only read.
func (s *Session) Document() *document.Document { return s.doc }

// PlayPause toggles between Playing and Paused. Playing from the finished
// position restarts at the first word.
func (s *Session) PlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Playing:
		s.pauseLocked()
	case Paused, Stopped:
		if s.doc.Finished() {
			s.doc.Seek(0)
		}
		s.playLocked()
	}
	s.emitLocked()
}

// Pause stops a running clock without touching the cursor. The pending
// wait is cancelled immediately; no partial delay carries into the next
// resume.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		s.pauseLocked()
		s.emitLocked()
	}
}

// Step pauses playback if needed and moves the cursor by delta, clamped.
func (s *Session) Step(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	s.doc.Step(delta)
	s.emitLocked()
}

// Seek pauses playback if needed and moves the cursor to pos, clamped.
func (s *Session) Seek(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	s.doc.Seek(pos)
	s.emitLocked()
}

// Reset pauses playback and rewinds to the first word. The session is
// left Paused, never Playing at position zero.
func (s *Session) Reset() {
	s.Seek(0)
}

// End seeks to the finished position past the last word.
func (s *Session) End() {
	s.Seek(s.doc.Len())
}

// ChangeSpeed adjusts the rate by delta words per minute, clamped into
// [document.MinWPM, document.MaxWPM]. A change while playing applies on
// the next tick; the tick already in flight keeps its delay.
func (s *Session) ChangeSpeed(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wpm = document.ClampWPM(s.wpm + delta)
	s.emitLocked()
}

// Speed returns the current rate in words per minute.
func (s *Session) Speed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wpm
}

// State returns the current playback state.
func (s *Session) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close stops the clock and moves the session to Stopped. The session is
// done afterwards; the caller drops its reference.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	if s.state != Stopped {
		s.state = Stopped
		s.log.Debug("session closed", "id", s.doc.ID(), "cursor", s.doc.Cursor())
	}
	s.emitLocked()
}

// pauseLocked cancels the pending wait and bumps the clock generation so a
// goroutine already past its timer cannot advance a resumed session.
func (s *Session) pauseLocked() {
	if s.state != Playing {
		return
	}
	s.state = Paused
	s.gen++
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	s.log.Debug("playback paused", "id", s.doc.ID(), "cursor", s.doc.Cursor())
}

func (s *Session) playLocked() {
	if s.state == Playing {
		return
	}
	s.state = Playing
	s.gen++
	s.cancel = make(chan struct{})
	go s.runClock(s.gen, s.cancel)
	s.log.Debug("playback started", "id", s.doc.ID(), "cursor", s.doc.Cursor(), "wpm", s.wpm)
}

// runClock is the playback loop: one cancellable wait per word. The delay
// is recomputed each iteration so speed changes land on the next tick
// without skipping or repeating a word.
func (s *Session) runClock(gen uint64, cancel chan struct{}) {
	for {
		s.mu.Lock()
		if s.gen != gen || s.state != Playing {
			s.mu.Unlock()
			return
		}
		delay := time.Minute / time.Duration(s.wpm)
		s.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-cancel:
			timer.Stop()
			return
		case <-timer.C:
		}

		s.mu.Lock()
		if s.gen != gen || s.state != Playing {
			s.mu.Unlock()
			return
		}
		s.doc.Step(1)
		if s.doc.Finished() {
			s.state = Paused
			s.gen++
			s.cancel = nil
			s.log.Debug("reached end of document", "id", s.doc.ID())
			s.emitLocked()
			s.mu.Unlock()
			return
		}
		s.emitLocked()
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() Event {
	ev := Event{
		Cursor:   s.doc.Cursor(),
		Total:    s.doc.Len(),
		State:    s.state,
		SpeedWPM: s.wpm,
	}
	if word, ok := s.doc.CurrentWord(); ok {
		ev.Token = word
		ev.ORPIndex = text.ORPIndex(word)
	}
	return ev
}

func (s *Session) emitLocked() {
	select {
	case s.events <- s.snapshotLocked():
	default:
		// Renderer lagging; the next event supersedes this one.
	}
}
