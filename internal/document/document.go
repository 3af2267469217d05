// Package document models an open document: an immutable token sequence
// plus a clamped cursor. The cursor may rest at len(tokens), which marks
// the document as finished.
package document

import "errors"

// Reading speed bounds in words per minute.
const (
	MinWPM     = 50
	MaxWPM     = 2000
	DefaultWPM = 300
)

// ErrInvalidSpeed is returned when a caller bypasses clamping and supplies
// a speed outside [MinWPM, MaxWPM]. Interactive paths clamp instead.
var ErrInvalidSpeed = errors.New("speed outside representable range")

// ErrNoTokens is returned by New for an empty token sequence; empty
// documents are rejected at import time and unrepresentable afterwards.
var ErrNoTokens = errors.New("document has no tokens")

// ClampWPM saturates a speed into [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}

// ValidWPM reports whether a stored speed is in range without clamping it.
func ValidWPM(wpm int) bool {
	return wpm >= MinWPM && wpm <= MaxWPM
}

// Document is an ordered word sequence with a cursor. Tokens never change
// after construction; only the cursor moves.
type Document struct {
	id     string
	title  string
	tokens []string
	cursor int
}

// New builds a document positioned at the first word.
func New(id, title string, tokens []string) (*Document, error) {
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}
	return &Document{id: id, title: title, tokens: tokens}, nil
}

// ID returns the stable document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the display name.
func (d *Document) Title() string { return d.title }

// Len returns the total token count.
func (d *Document) Len() int { return len(d.tokens) }

// Cursor returns the current position in [0, Len()].
func (d *Document) Cursor() int { return d.cursor }

// Finished reports whether the cursor is past the last word.
func (d *Document) Finished() bool { return d.cursor == len(d.tokens) }

// CurrentWord returns the word under the cursor, or ok=false when the
// document is finished.
func (d *Document) CurrentWord() (string, bool) {
	if d.cursor >= len(d.tokens) {
		return "", false
	}
	return d.tokens[d.cursor], true
}

// Step moves the cursor by delta, saturating at both boundaries, and
// returns the new position. Stepping past a boundary is a no-op there.
func (d *Document) Step(delta int) int {
	return d.Seek(d.cursor + delta)
}

// Seek moves the cursor to pos clamped into [0, Len()] and returns the
// new position.
func (d *Document) Seek(pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.tokens) {
		pos = len(d.tokens)
	}
	d.cursor = pos
	return d.cursor
}
