// Package study is the matan browser: the full catalog, one verse per
// page, for revision before a tasmik sitting.
package study

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

// StudyScreen pages through the verse catalog.
type StudyScreen struct {
	index int
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a study screen at the first verse.
func New() *StudyScreen {
	return &StudyScreen{}
}

func (s *StudyScreen) Title() string {
	return "Kaji Matan"
}

func (s *StudyScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Bait"},
		{Key: "Home/End", Description: "Awal/Akhir"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		if s.index > 0 {
			s.index--
		}
	case "right", "l":
		if s.index < catalog.Size()-1 {
			s.index++
		}
	case "home", "g":
		s.index = 0
	case "end", "G":
		s.index = catalog.Size() - 1
	}
	return s, nil
}

func (s *StudyScreen) View(width, height int) string {
	verse, ok := catalog.At(s.index)
	if !ok {
		return ""
	}

	var b strings.Builder

	counter := theme.Subtitle.Width(width).Render(
		fmt.Sprintf("Bait %d daripada %d", verse.ID, catalog.Size()))
	b.WriteString("\n" + counter + "\n\n")

	inner := min(width-8, 72)
	halves := strings.Split(verse.Text, " * ")
	arabic := theme.Verse.Width(inner).Render(strings.Join(halves, "\n"))
	translation := theme.Translation.Width(inner).Render(verse.Translation)
	card := theme.Card.Render(arabic + "\n\n" + translation)

	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(card))
	b.WriteString("\n\n")

	dots := s.renderDots(width)
	b.WriteString(dots)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

// renderDots draws a position strip, one dot per verse.
func (s *StudyScreen) renderDots(width int) string {
	var dots []string
	for i := 0; i < catalog.Size(); i++ {
		if i == s.index {
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Primary).Render("●"))
		} else {
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Border).Render("·"))
		}
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(dots, " "))
}
