// Package library persists the document catalog and the raw text bodies.
// The catalog is a single JSON file replaced atomically on every write;
// bodies live one file per document under books/.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kearnsw/rsvp/internal/document"
	"github.com/kearnsw/rsvp/internal/text"
)

const (
	catalogFile = "library.json"
	booksDir    = "books"
)

var (
	// ErrNotFound is returned when an operation references an unknown
	// document id, including a repeated delete.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateDocument is returned when importing text that is
	// already in the library; the caller decides whether to delete and
	// reimport.
	ErrDuplicateDocument = errors.New("document already in library")
)

// Entry is one catalog record: document metadata plus saved progress.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourcePath string    `json:"source_path"`
	TotalWords int       `json:"total_words"`
	Cursor     int       `json:"cursor"`
	SpeedWPM   int       `json:"speed_wpm"`
	LastOpened time.Time `json:"last_opened"`
}

type catalog struct {
	Entries []Entry `json:"entries"`
}

// Store owns the on-disk catalog and text bodies. All mutating operations
// are serialized and each one replaces the whole catalog atomically, so an
// interrupted write never leaves a torn file behind.
type Store struct {
	mu  sync.Mutex
	dir string
	log *slog.Logger
}

// Open prepares a store rooted at dir, creating the layout if needed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, booksDir), 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	return &Store{dir: dir, log: logger}, nil
}

// DocumentID derives the stable identifier for a text body: the first
// twelve hex characters of its SHA-256. Identical content maps to the same
// id, which is what makes reimports detectable.
func DocumentID(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])[:12]
}

// Import tokenizes the text, stores the body, and creates a catalog entry
// with cursor 0 and the given starting speed (clamped; zero means the
// default). It returns text.ErrEmptyDocument for wordless input and
// ErrDuplicateDocument when the same content is already present.
func (s *Store) Import(title, sourcePath, body string, wpm int) (string, error) {
	tokens, err := text.Tokenize(body)
	if err != nil {
		return "", err
	}
	if wpm == 0 {
		wpm = document.DefaultWPM
	}
	wpm = document.ClampWPM(wpm)

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.readCatalog()
	if err != nil {
		return "", err
	}
	id := DocumentID(body)
	for _, entry := range cat.Entries {
		if entry.ID == id {
			return "", fmt.Errorf("%q: %w", entry.Title, ErrDuplicateDocument)
		}
	}

	if err := s.writeFileAtomic(s.bodyPath(id), []byte(body)); err != nil {
		return "", fmt.Errorf("store document body: %w", err)
	}
	cat.Entries = append(cat.Entries, Entry{
		ID:         id,
		Title:      title,
		SourcePath: sourcePath,
		TotalWords: len(tokens),
		Cursor:     0,
		SpeedWPM:   wpm,
		LastOpened: time.Now(),
	})
	if err := s.writeCatalog(cat); err != nil {
		// Keep disk state unchanged on failure: drop the body we
		// just wrote for the entry that never landed.
		_ = os.Remove(s.bodyPath(id))
		return "", err
	}
	s.log.Info("imported document", "id", id, "title", title, "words", len(tokens))
	return id, nil
}

// List returns all entries sorted by last-opened time, most recent first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.readCatalog()
	if err != nil {
		return nil, err
	}
	entries := append([]Entry(nil), cat.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastOpened.After(entries[j].LastOpened)
	})
	return entries, nil
}

// Load reconstructs the document for id with its saved cursor, marks the
// entry as opened now, and returns the refreshed entry.
func (s *Store) Load(id string) (*document.Document, Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.readCatalog()
	if err != nil {
		return nil, Entry{}, err
	}
	idx := findEntry(cat.Entries, id)
	if idx < 0 {
		return nil, Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	body, err := os.ReadFile(s.bodyPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, Entry{}, fmt.Errorf("%s: body missing: %w", id, ErrNotFound)
		}
		return nil, Entry{}, fmt.Errorf("read document body: %w", err)
	}
	tokens, err := text.Tokenize(string(body))
	if err != nil {
		return nil, Entry{}, fmt.Errorf("stored body for %s: %w", id, err)
	}

	entry := &cat.Entries[idx]
	doc, err := document.New(entry.ID, entry.Title, tokens)
	if err != nil {
		return nil, Entry{}, err
	}
	doc.Seek(entry.Cursor)
	entry.Cursor = doc.Cursor()
	entry.SpeedWPM = document.ClampWPM(entry.SpeedWPM)
	entry.LastOpened = time.Now()
	if err := s.writeCatalog(cat); err != nil {
		return nil, Entry{}, err
	}
	s.log.Info("opened document", "id", id, "cursor", entry.Cursor)
	return doc, *entry, nil
}

// SaveProgress records the cursor and speed for id. The cursor is clamped
// into the document's range; the speed must already be in range since
// interactive paths clamp before calling.
func (s *Store) SaveProgress(id string, cursor, wpm int) error {
	if !document.ValidWPM(wpm) {
		return fmt.Errorf("%d wpm: %w", wpm, document.ErrInvalidSpeed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.readCatalog()
	if err != nil {
		return err
	}
	idx := findEntry(cat.Entries, id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	entry := &cat.Entries[idx]
	if cursor < 0 {
		cursor = 0
	}
	if cursor > entry.TotalWords {
		cursor = entry.TotalWords
	}
	entry.Cursor = cursor
	entry.SpeedWPM = wpm
	entry.LastOpened = time.Now()
	if err := s.writeCatalog(cat); err != nil {
		return err
	}
	s.log.Debug("saved progress", "id", id, "cursor", cursor, "wpm", wpm)
	return nil
}

// Delete removes the entry and its body. Deleting an unknown id, including
// a second delete of the same document, reports ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.readCatalog()
	if err != nil {
		return err
	}
	idx := findEntry(cat.Entries, id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	title := cat.Entries[idx].Title
	cat.Entries = append(cat.Entries[:idx], cat.Entries[idx+1:]...)
	if err := s.writeCatalog(cat); err != nil {
		return err
	}
	if err := os.Remove(s.bodyPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove document body: %w", err)
	}
	s.log.Info("deleted document", "id", id, "title", title)
	return nil
}

func findEntry(entries []Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) catalogPath() string {
	return filepath.Join(s.dir, catalogFile)
}

func (s *Store) bodyPath(id string) string {
	return filepath.Join(s.dir, booksDir, id+".txt")
}

func (s *Store) readCatalog() (*catalog, error) {
	data, err := os.ReadFile(s.catalogPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &catalog{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

func (s *Store) writeCatalog(cat *catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.writeFileAtomic(s.catalogPath(), data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over the target, so readers only ever observe a complete file.
func (s *Store) writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
