// Package tui is the terminal front-end: it renders engine events and maps
// keys onto engine and library commands. It never mutates the cursor
// itself; every position change goes through the session.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kearnsw/rsvp/internal/engine"
	"github.com/kearnsw/rsvp/internal/importer"
	"github.com/kearnsw/rsvp/internal/library"
	"github.com/kearnsw/rsvp/internal/text"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Store      *library.Store
	DefaultWPM int
	Log        *slog.Logger
}

type screen int

const (
	screenReader screen = iota
	screenLibrary
	screenImport
	screenConfirm
	screenHelp
)

const (
	statusLifetime = 3 * time.Second
	saveEveryTicks = 10
)

type model struct {
	config Config
	screen screen

	session  *engine.Session
	entry    library.Entry
	snapshot engine.Event
	hasDoc   bool

	entries    []library.Entry
	librarySel int

	pathInput textinput.Model
	importErr string

	confirmMessage string
	confirmID      string
	confirmReturn  screen

	gauge progress.Model

	status   string
	statusAt time.Time

	width  int
	height int
}

type engineEventMsg struct {
	session *engine.Session
	event   engine.Event
}

type statusTickMsg time.Time

// New returns a tea.Model ready to be mounted into a Program. The most
// recently opened document, if any, is reopened immediately.
func New(config Config) tea.Model {
	if config.Log == nil {
		config.Log = slog.Default()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = "~/books/story.txt"
	pathInput.CharLimit = 250
	pathInput.Width = 60

	m := &model{
		config:    config,
		screen:    screenReader,
		pathInput: pathInput,
		gauge:     progress.New(progress.WithDefaultGradient()),
		width:     80,
		height:    24,
	}

	entries, err := config.Store.List()
	if err != nil {
		config.Log.Error("list library", "err", err)
	} else {
		m.entries = entries
		if len(entries) > 0 {
			m.openDocument(entries[0].ID)
		}
	}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.session != nil {
		cmds = append(cmds, waitForEvent(m.session))
	}
	return tea.Batch(cmds...)
}

// waitForEvent blocks on the session's event channel and feeds the next
// snapshot back into Update. It re-arms itself there.
func waitForEvent(s *engine.Session) tea.Cmd {
	return func() tea.Msg {
		return engineEventMsg{session: s, event: <-s.Events()}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		return m.handleKey(msg)
	case engineEventMsg:
		return m.handleEngineEvent(msg)
	case statusTickMsg:
		if m.status != "" && time.Since(m.statusAt) >= statusLifetime {
			m.status = ""
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gauge.Width = msg.Width - 2
		if m.gauge.Width < 10 {
			m.gauge.Width = 10
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleEngineEvent(msg engineEventMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session {
		// Final event of a session that was already replaced; the old
		// channel has no listener anymore.
		return m, nil
	}
	prev := m.snapshot
	m.snapshot = msg.event

	var cmds []tea.Cmd
	if msg.event.State == engine.Playing && msg.event.Cursor > 0 && msg.event.Cursor%saveEveryTicks == 0 {
		m.saveProgress()
	}
	if prev.State == engine.Playing && msg.event.State == engine.Paused {
		m.saveProgress()
		if msg.event.Cursor == msg.event.Total {
			cmds = append(cmds, m.setStatus("Finished reading!"))
		}
	}
	cmds = append(cmds, waitForEvent(m.session))
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenReader:
		return m.handleReaderKey(key)
	case screenLibrary:
		return m.handleLibraryKey(key)
	case screenImport:
		return m.handleImportKey(key)
	case screenConfirm:
		return m.handleConfirmKey(key)
	case screenHelp:
		m.screen = screenReader
		return m, nil
	default:
		return m, nil
	}
}

func (m *model) handleReaderKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		return m, m.quit()
	case " ":
		if !m.hasDoc {
			return m, m.setStatus("No document loaded. Press i to import.")
		}
		m.session.PlayPause()
		return m, nil
	case "up", "k":
		return m, m.changeSpeed(+50)
	case "shift+up", "K":
		return m, m.changeSpeed(+100)
	case "down", "j":
		return m, m.changeSpeed(-50)
	case "shift+down", "J":
		return m, m.changeSpeed(-100)
	case "left", "h":
		return m, m.navigate(func() { m.session.Step(-1) })
	case "right", "l":
		return m, m.navigate(func() { m.session.Step(+1) })
	case "[", "b":
		return m, m.navigate(func() { m.session.Step(-10) })
	case "]", "w":
		return m, m.navigate(func() { m.session.Step(+10) })
	case "home":
		return m, m.navigate(func() { m.session.Seek(0) })
	case "end":
		return m, m.navigate(func() { m.session.End() })
	case "r":
		if !m.hasDoc {
			return m, nil
		}
		m.session.Reset()
		m.syncSnapshot()
		m.saveProgress()
		return m, m.setStatus("Reset to beginning")
	case "o":
		m.pauseIfPlaying()
		m.refreshEntries()
		m.librarySel = 0
		m.screen = screenLibrary
		return m, nil
	case "i":
		m.pauseIfPlaying()
		m.enterImportScreen()
		return m, nil
	case "d":
		if !m.hasDoc {
			return m, m.setStatus("No document loaded")
		}
		m.pauseIfPlaying()
		m.askDelete(m.entry.ID, m.entry.Title, screenReader)
		return m, nil
	case "?":
		m.pauseIfPlaying()
		m.screen = screenHelp
		return m, nil
	}
	return m, nil
}

func (m *model) handleLibraryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q", "o":
		m.screen = screenReader
		return m, nil
	case "up", "k":
		if len(m.entries) > 0 {
			m.librarySel = (m.librarySel - 1 + len(m.entries)) % len(m.entries)
		}
		return m, nil
	case "down", "j":
		if len(m.entries) > 0 {
			m.librarySel = (m.librarySel + 1) % len(m.entries)
		}
		return m, nil
	case "enter":
		if m.librarySel < len(m.entries) {
			id := m.entries[m.librarySel].ID
			cmd := m.openDocument(id)
			m.screen = screenReader
			return m, cmd
		}
		return m, nil
	case "d":
		if m.librarySel < len(m.entries) {
			entry := m.entries[m.librarySel]
			m.askDelete(entry.ID, entry.Title, screenLibrary)
		}
		return m, nil
	case "i":
		m.enterImportScreen()
		return m, nil
	}
	return m, nil
}

func (m *model) handleImportKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.screen = screenReader
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := m.pathInput.Value()
		if path == "" {
			return m, nil
		}
		return m.importFile(path)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(key)
	m.importErr = ""
	return m, cmd
}

func (m *model) handleConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y":
		cmd := m.deleteDocument(m.confirmID)
		m.screen = m.confirmReturn
		return m, cmd
	case "n", "N", "esc":
		m.confirmID = ""
		m.screen = m.confirmReturn
		return m, nil
	}
	return m, nil
}

// openDocument closes any current session and opens id with its saved
// cursor and speed. Returns the command that subscribes to the new
// session's events.
func (m *model) openDocument(id string) tea.Cmd {
	if m.session != nil {
		m.saveProgress()
		m.session.Close()
	}
	doc, entry, err := m.config.Store.Load(id)
	if err != nil {
		m.config.Log.Error("open document", "id", id, "err", err)
		m.session = nil
		m.hasDoc = false
		m.snapshot = engine.Event{}
		return m.setStatus("Could not open document")
	}
	m.session = engine.NewSession(doc, entry.SpeedWPM, m.config.Log)
	m.entry = entry
	m.hasDoc = true
	m.snapshot = m.session.Snapshot()
	return waitForEvent(m.session)
}

func (m *model) importFile(path string) (tea.Model, tea.Cmd) {
	result, err := importer.Read(path)
	if err != nil {
		m.importErr = err.Error()
		return m, nil
	}
	id, err := m.config.Store.Import(result.Title, result.SourcePath, result.Text, m.config.DefaultWPM)
	switch {
	case errors.Is(err, library.ErrDuplicateDocument):
		m.importErr = "Already in library (delete it first to reimport)"
		return m, nil
	case errors.Is(err, text.ErrEmptyDocument):
		m.importErr = "File contains no words"
		return m, nil
	case err != nil:
		m.importErr = err.Error()
		return m, nil
	}

	m.pathInput.Blur()
	m.screen = screenReader
	openCmd := m.openDocument(id)
	m.refreshEntries()
	status := m.setStatus(fmt.Sprintf("Imported: %s (%d words)", result.Title, m.entry.TotalWords))
	return m, tea.Batch(openCmd, status)
}

func (m *model) deleteDocument(id string) tea.Cmd {
	entry, _ := m.entryByID(id)
	if m.hasDoc && m.entry.ID == id {
		m.session.Close()
		m.session = nil
		m.hasDoc = false
		m.snapshot = engine.Event{}
	}
	if err := m.config.Store.Delete(id); err != nil {
		m.config.Log.Error("delete document", "id", id, "err", err)
		return m.setStatus("Delete failed")
	}
	m.refreshEntries()
	if m.librarySel >= len(m.entries) && m.librarySel > 0 {
		m.librarySel = len(m.entries) - 1
	}
	return m.setStatus(fmt.Sprintf("Deleted: %s", entry.Title))
}

func (m *model) askDelete(id, title string, back screen) {
	m.confirmID = id
	m.confirmMessage = fmt.Sprintf("Delete %q?", title)
	m.confirmReturn = back
	m.screen = screenConfirm
}

func (m *model) enterImportScreen() {
	m.screen = screenImport
	m.pathInput.SetValue("")
	m.importErr = ""
	m.pathInput.Focus()
}

func (m *model) navigate(move func()) tea.Cmd {
	if !m.hasDoc {
		return nil
	}
	move()
	m.syncSnapshot()
	m.saveProgress()
	return nil
}

func (m *model) changeSpeed(delta int) tea.Cmd {
	if !m.hasDoc {
		return nil
	}
	m.session.ChangeSpeed(delta)
	m.syncSnapshot()
	m.saveProgress()
	return m.setStatus(fmt.Sprintf("Speed: %d WPM", m.snapshot.SpeedWPM))
}

func (m *model) pauseIfPlaying() {
	if m.hasDoc && m.session.State() == engine.Playing {
		m.session.Pause()
		m.syncSnapshot()
		m.saveProgress()
	}
}

// syncSnapshot pulls the session state directly after a synchronous
// command, so the next render does not wait for the event channel.
func (m *model) syncSnapshot() {
	if m.session != nil {
		m.snapshot = m.session.Snapshot()
	}
}

func (m *model) saveProgress() {
	if !m.hasDoc {
		return
	}
	snap := m.session.Snapshot()
	if err := m.config.Store.SaveProgress(m.entry.ID, snap.Cursor, snap.SpeedWPM); err != nil {
		m.config.Log.Error("save progress", "id", m.entry.ID, "err", err)
	}
}

func (m *model) refreshEntries() {
	entries, err := m.config.Store.List()
	if err != nil {
		m.config.Log.Error("list library", "err", err)
		return
	}
	m.entries = entries
}

func (m *model) entryByID(id string) (library.Entry, bool) {
	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return library.Entry{}, false
}

func (m *model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusAt = time.Now()
	return tea.Tick(statusLifetime+50*time.Millisecond, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m *model) quit() tea.Cmd {
	if m.hasDoc {
		m.saveProgress()
		m.session.Close()
	}
	return tea.Quit
}
