package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadTextFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "short story.txt")
	if err := os.WriteFile(path, []byte("once upon a time"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Text != "once upon a time" {
		t.Fatalf("Read() text = %q", got.Text)
	}
	if got.Title != "short story" {
		t.Fatalf("Read() title = %q, want short story", got.Title)
	}
	if got.SourcePath != path {
		t.Fatalf("Read() source = %q, want %q", got.SourcePath, path)
	}
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Read(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("Read() on a missing file should fail")
	}
}

func TestReadRejectsDirectory(t *testing.T) {
	t.Parallel()

	if _, err := Read(t.TempDir()); err == nil {
		t.Fatal("Read() on a directory should fail")
	}
}

func TestTitleFromPath(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"/books/moby-dick.txt", "moby-dick"},
		{"/books/paper.pdf", "paper"},
		{"/books/README", "README"},
	}
	for _, tc := range cases {
		if got := titleFromPath(tc.in); got != tc.want {
			t.Errorf("titleFromPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := expandHome("~/books/a.txt")
	if err != nil {
		t.Fatalf("expandHome() error = %v", err)
	}
	if want := filepath.Join(home, "books", "a.txt"); got != want {
		t.Fatalf("expandHome() = %q, want %q", got, want)
	}

	// Paths without a leading ~ pass through untouched.
	if got, err := expandHome("/etc/hosts"); err != nil || got != "/etc/hosts" {
		t.Fatalf("expandHome(/etc/hosts) = %q, %v", got, err)
	}
}
