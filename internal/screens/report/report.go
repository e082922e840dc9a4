// Package report renders a learner's progress report: overall hafazan
// percentage plus the attempt log, newest first. The same screen serves
// the learner's own report and the read-only view a teacher opens from
// the directory.
package report

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/learner"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/ui/components"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

// ReportScreen shows one learner's progress and attempt log.
type ReportScreen struct {
	profile learner.Profile
	history learner.History
	onClose func()
	offset  int
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)
var _ screen.EscHandler = (*ReportScreen)(nil)

// New creates a report for the given learner. onClose, when non-nil, is
// called as the screen is dismissed.
func New(profile learner.Profile, history learner.History, onClose func()) *ReportScreen {
	return &ReportScreen{
		profile: profile,
		history: history,
		onClose: onClose,
	}
}

func (s *ReportScreen) Title() string {
	return "Laporan Prestasi"
}

func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Skrol"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *ReportScreen) HandleEsc() (bool, tea.Cmd) {
	if s.onClose != nil {
		s.onClose()
	}
	return false, nil
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.offset < len(s.history)-1 {
			s.offset++
		}
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	var b strings.Builder

	name := theme.Title.Width(width).Render(s.profile.FullName)
	sub := theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%s · KP %s", s.profile.ClassName, s.profile.ICNumber))
	b.WriteString("\n" + name + "\n" + sub + "\n\n")

	passed := len(s.history.PassedVerses())
	progress := s.history.ProgressPercent(catalog.Size())

	barWidth := width / 2
	if barWidth < 30 {
		barWidth = 30
	}
	bar := components.NewProgressBar("Hafazan", float64(progress)/100, true, barWidth)
	stats := fmt.Sprintf("%d / %d bait lulus  ·  %d percubaan  ·  purata %d",
		passed, catalog.Size(), len(s.history), averageScore(s.history))

	summary := theme.Card.Render(
		bar.View() + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(stats))
	b.WriteString(centered(width, summary))
	b.WriteString("\n\n")

	b.WriteString(s.renderAttempts(width, height))

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

func (s *ReportScreen) renderAttempts(width, height int) string {
	if len(s.history) == 0 {
		return centered(width, theme.Hint.Render("Belum ada percubaan direkodkan."))
	}

	// Rows visible after the header block.
	visible := height - 12
	if visible < 3 {
		visible = 3
	}

	header := fmt.Sprintf("  %-18s %-8s %-8s %s", "MASA", "BAIT", "MARKAH", "STATUS")
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header),
	}

	end := s.offset + visible
	if end > len(s.history) {
		end = len(s.history)
	}
	for _, a := range s.history[s.offset:end] {
		status := theme.Correct.Render("LULUS")
		if !a.IsCorrect {
			status = theme.Incorrect.Render("GAGAL")
		}
		when := time.UnixMilli(a.Timestamp).Format("02/01/06 15:04")
		row := fmt.Sprintf("  %-18s %-8d %-8d ", when, a.VerseID, a.Score)
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Text).Render(row)+status)
	}

	if end < len(s.history) {
		lines = append(lines, theme.Hint.Render(
			fmt.Sprintf("  … %d lagi", len(s.history)-end)))
	}

	return strings.Join(lines, "\n")
}

func averageScore(h learner.History) int {
	if len(h) == 0 {
		return 0
	}
	total := 0
	for _, a := range h {
		total += a.Score
	}
	return total / len(h)
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}
