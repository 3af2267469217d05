package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kearnsw/rsvp/internal/engine"
	"github.com/kearnsw/rsvp/internal/library"
)

func (m *model) View() string {
	switch m.screen {
	case screenLibrary:
		return m.viewLibrary()
	case screenImport:
		return m.viewImport()
	case screenConfirm:
		return m.viewConfirm()
	case screenHelp:
		return m.viewHelp()
	default:
		return m.viewReader()
	}
}

func (m *model) viewReader() string {
	parts := []string{
		m.titleBar(),
		m.wordPanel(),
		m.gauge.ViewAs(m.progressFraction()),
		m.statsLine(),
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, footerStyle.Render("space play/pause · ←/→ word · [/] ±10 · ↑/↓ speed · o library · i import · ? help · q quit"))
	return strings.Join(parts, "\n")
}

func (m *model) titleBar() string {
	title := m.entry.Title
	if !m.hasDoc {
		title = "Press i to import a file or o to open library"
	}
	title = wordwrap.String(title, m.innerWidth())
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx] + "…"
	}
	return titleBarStyle.Width(m.innerWidth()).Render(title)
}

// wordPanel renders the current word with the ORP rune pinned to the
// center column, framed by the focal guides.
func (m *model) wordPanel() string {
	width := m.innerWidth()
	center := width / 2
	guide := strings.Repeat(" ", center) + guideStyle.Render("|")

	var wordLine string
	if m.snapshot.Token == "" {
		label := "Ready"
		if m.hasDoc && m.snapshot.Cursor == m.snapshot.Total {
			label = "Finished"
		}
		pad := center - len(label)/2
		if pad < 0 {
			pad = 0
		}
		wordLine = strings.Repeat(" ", pad) + idleWordStyle.Render(label)
	} else {
		wordLine = orpLine(m.snapshot.Token, m.snapshot.ORPIndex, center)
	}

	body := strings.Join([]string{"", guide, wordLine, guide, ""}, "\n")
	return wordBoxStyle.Width(width).Render(body)
}

// orpLine lays out a word so its highlight rune sits at the center column.
func orpLine(token string, orpIdx, center int) string {
	runes := []rune(token)
	if orpIdx < 0 || orpIdx >= len(runes) {
		orpIdx = 0
	}
	before := string(runes[:orpIdx])
	orp := string(runes[orpIdx])
	after := string(runes[orpIdx+1:])

	pad := center - len([]rune(before))
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + wordStyle.Render(before) + orpStyle.Render(orp) + wordStyle.Render(after)
}

func (m *model) statsLine() string {
	if !m.hasDoc {
		return helperStyle.Render("Library empty? Import any text or PDF file with i.")
	}
	wordNumber := m.snapshot.Cursor + 1
	if wordNumber > m.snapshot.Total {
		wordNumber = m.snapshot.Total
	}
	stats := []string{
		fmt.Sprintf("WPM: %d", m.snapshot.SpeedWPM),
		fmt.Sprintf("Word: %d/%d", wordNumber, m.snapshot.Total),
		fmt.Sprintf("Progress: %.1f%%", m.progressFraction()*100),
		stateLabel(m.snapshot.State),
	}
	return statsStyle.Render(strings.Join(stats, "  |  "))
}

func stateLabel(state engine.PlaybackState) string {
	switch state {
	case engine.Playing:
		return playingStyle.Render("Playing")
	case engine.Paused:
		return pausedStyle.Render("Paused")
	default:
		return helperStyle.Render("Stopped")
	}
}

func (m *model) progressFraction() float64 {
	if !m.hasDoc || m.snapshot.Total == 0 {
		return 0
	}
	return float64(m.snapshot.Cursor) / float64(m.snapshot.Total)
}

func (m *model) viewLibrary() string {
	rows := []string{sectionHeaderStyle.Render("Library")}
	if len(m.entries) == 0 {
		rows = append(rows, helperStyle.Render("No documents yet. Press i to import."))
	}
	for i, entry := range m.entries {
		rows = append(rows, m.libraryRow(entry, i))
	}
	rows = append(rows, "", footerStyle.Render("enter open · d delete · i import · esc close"))
	return overlayBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) libraryRow(entry library.Entry, index int) string {
	marker := "  "
	if m.hasDoc && entry.ID == m.entry.ID {
		marker = openMarkerStyle.Render("> ")
	}
	pct := 0.0
	if entry.TotalWords > 0 {
		pct = float64(entry.Cursor) / float64(entry.TotalWords) * 100
	}
	row := fmt.Sprintf("%s%s %s", marker, entry.Title,
		helperStyle.Render(fmt.Sprintf("(%.0f%% · %d words)", pct, entry.TotalWords)))
	if index == m.librarySel {
		return selectedRowStyle.Render(row)
	}
	return row
}

func (m *model) viewImport() string {
	rows := []string{
		sectionHeaderStyle.Render("Import File"),
		"",
		"Enter a path to a text or PDF file:",
		m.pathInput.View(),
	}
	if m.importErr != "" {
		rows = append(rows, errorStyle.Render(wordwrap.String(m.importErr, m.innerWidth()-4)))
	}
	rows = append(rows, "", footerStyle.Render("enter import · esc cancel"))
	return overlayBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) viewConfirm() string {
	rows := []string{
		m.confirmMessage,
		"",
		confirmYesStyle.Render("y") + ": Yes   " + confirmNoStyle.Render("n") + ": No",
	}
	return confirmBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) viewHelp() string {
	type keyHint struct {
		keys string
		desc string
	}
	sections := []struct {
		name  string
		hints []keyHint
	}{
		{"Playback", []keyHint{
			{"space", "Start/pause reading"},
			{"r", "Reset to beginning"},
		}},
		{"Speed", []keyHint{
			{"↑ / k", "Increase WPM by 50"},
			{"↓ / j", "Decrease WPM by 50"},
			{"shift+↑ / K", "Increase WPM by 100"},
			{"shift+↓ / J", "Decrease WPM by 100"},
		}},
		{"Navigation", []keyHint{
			{"← / h", "Back 1 word"},
			{"→ / l", "Forward 1 word"},
			{"[ / b", "Back 10 words"},
			{"] / w", "Forward 10 words"},
			{"home / end", "Jump to start / end"},
		}},
		{"Library", []keyHint{
			{"o", "Open library"},
			{"i", "Import file"},
			{"d", "Delete current document"},
		}},
		{"Other", []keyHint{
			{"?", "Show this help"},
			{"q / esc", "Quit"},
		}},
	}

	rows := []string{sectionHeaderStyle.Render("RSVP Reader: Keyboard Shortcuts"), ""}
	for _, section := range sections {
		rows = append(rows, helpSectionStyle.Render(section.name))
		for _, hint := range section.hints {
			rows = append(rows, fmt.Sprintf("  %s %s", keyStyle.Render(fmt.Sprintf("%-12s", hint.keys)), hint.desc))
		}
		rows = append(rows, "")
	}
	rows = append(rows, footerStyle.Render("Press any key to close"))
	return overlayBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) innerWidth() int {
	width := m.width - 2
	if width < 30 {
		width = 30
	}
	return width
}

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Align(lipgloss.Center)
	wordBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	wordStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	orpStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	idleWordStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	guideStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	pausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helperStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helpSectionStyle   = lipgloss.NewStyle().Bold(true)
	keyStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("8"))
	openMarkerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	overlayBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("81")).
				Padding(1, 2)
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(1, 2)
	confirmYesStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	confirmNoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)
