package document

import (
	"errors"
	"testing"
)

func newTestDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := New("abc123", "Fixture", []string{"the", "quick", "brown", "fox"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return doc
}

func TestNewRejectsEmptyTokens(t *testing.T) {
	t.Parallel()

	if _, err := New("id", "Empty", nil); !errors.Is(err, ErrNoTokens) {
		t.Fatalf("New() error = %v, want ErrNoTokens", err)
	}
}

func TestStepMovesAndClamps(t *testing.T) {
	t.Parallel()

	doc := newTestDoc(t)
	if got := doc.Step(1); got != 1 {
		t.Fatalf("Step(+1) = %d, want 1", got)
	}
	if word, ok := doc.CurrentWord(); !ok || word != "quick" {
		t.Fatalf("CurrentWord() = %q, %v; want quick", word, ok)
	}

	// Overshooting clamps to the finished position.
	if got := doc.Step(10); got != doc.Len() {
		t.Fatalf("Step(+10) = %d, want %d", got, doc.Len())
	}
	if _, ok := doc.CurrentWord(); ok {
		t.Fatal("CurrentWord() should be absent once finished")
	}
	if !doc.Finished() {
		t.Fatal("Finished() = false at end of document")
	}

	// Stepping past either boundary saturates, never wraps.
	if got := doc.Step(5); got != doc.Len() {
		t.Fatalf("Step past end = %d, want %d", got, doc.Len())
	}
	if got := doc.Step(-100); got != 0 {
		t.Fatalf("Step past start = %d, want 0", got)
	}
	if got := doc.Step(-1); got != 0 {
		t.Fatalf("Step(-1) at start = %d, want 0", got)
	}
}

func TestSeekClamps(t *testing.T) {
	t.Parallel()

	doc := newTestDoc(t)
	if got := doc.Seek(2); got != 2 {
		t.Fatalf("Seek(2) = %d, want 2", got)
	}
	if got := doc.Seek(-3); got != 0 {
		t.Fatalf("Seek(-3) = %d, want 0", got)
	}
	if got := doc.Seek(99); got != doc.Len() {
		t.Fatalf("Seek(99) = %d, want %d", got, doc.Len())
	}
}

func TestCursorNeverLeavesRange(t *testing.T) {
	t.Parallel()

	doc := newTestDoc(t)
	deltas := []int{3, -1, 10, -10, 2, -7, 100, -100, 1}
	for _, delta := range deltas {
		got := doc.Step(delta)
		if got < 0 || got > doc.Len() {
			t.Fatalf("Step(%d) left cursor at %d, outside [0, %d]", delta, got, doc.Len())
		}
	}
}

func TestClampWPM(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want int }{
		{0, MinWPM},
		{49, MinWPM},
		{50, 50},
		{300, 300},
		{2000, 2000},
		{2050, MaxWPM},
	}
	for _, tc := range cases {
		if got := ClampWPM(tc.in); got != tc.want {
			t.Errorf("ClampWPM(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if ValidWPM(2001) || ValidWPM(49) {
		t.Fatal("ValidWPM accepted an out-of-range speed")
	}
	if !ValidWPM(DefaultWPM) {
		t.Fatal("ValidWPM rejected the default speed")
	}
}
