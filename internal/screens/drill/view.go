package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/ui/components"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	var content string
	switch s.sess.State() {
	case session.StateProcessing:
		content = s.renderProcessing(width)
	case session.StateResults:
		content = s.renderResults(width)
	default:
		content = s.renderVerse(width)
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, content)
}

// renderVerse shows the verse card and the record control.
func (s *DrillScreen) renderVerse(width int) string {
	verse := s.sess.CurrentVerse()

	var b strings.Builder

	counter := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Bait %d / %d", verse.ID, catalog.Size()))
	b.WriteString("\n" + counter + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(renderVerseCard(verse, width))
	b.WriteString("\n\n")

	if s.sess.Recording() {
		secs := int(s.recElapsed.Seconds())
		rec := theme.Recording.Render("● RAKAMAN") +
			lipgloss.NewStyle().Foreground(theme.Text).
				Render(fmt.Sprintf("  %d:%02d", secs/60, secs%60))
		b.WriteString(centered(width, rec))
		b.WriteString("\n\n")
		b.WriteString(centered(width, components.NewButton("■ HENTI & HANTAR", true, nil).View()))
	} else {
		b.WriteString(centered(width, components.NewButton("● MULA RAKAMAN", false, nil).View()))
		b.WriteString("\n\n")
		hint := theme.Hint.Render("Bacakan bait di atas, kemudian tekan Space.")
		b.WriteString(centered(width, hint))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n" + centered(width,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}

	return b.String()
}

func (s *DrillScreen) renderProcessing(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	frame := spinnerFrames[s.spinFrame]
	spinner := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(frame + "  Sedang dinilai...")
	b.WriteString(centered(width, spinner))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Hint.Render("Bacaan anda sedang disemak oleh pemeriksa.")))
	return b.String()
}

func (s *DrillScreen) renderResults(width int) string {
	verdict := s.sess.Verdict()
	if verdict == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	var status string
	if s.sess.LastCorrect() {
		status = theme.Correct.Render("✓ LULUS")
	} else {
		status = theme.Incorrect.Render("✗ BELUM LULUS")
	}
	score := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("Markah: %d / 100", verdict.Score))
	b.WriteString(centered(width, status+"   "+score))
	b.WriteString("\n\n")

	var sections []string
	if verdict.Transcription != "" {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Bacaan yang didengar:")+"\n"+
				lipgloss.NewStyle().Foreground(theme.Text).Italic(true).Render(verdict.Transcription))
	}
	if len(verdict.Errors) > 0 {
		var lines []string
		for _, e := range verdict.Errors {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render("• "+e))
		}
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Kesalahan:")+"\n"+
				strings.Join(lines, "\n"))
	}
	if verdict.Feedback != "" {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Komen pemeriksa:")+"\n"+
				lipgloss.NewStyle().Foreground(theme.Secondary).Render(verdict.Feedback))
	}

	card := theme.Card.Width(min(width-8, 72)).Render(strings.Join(sections, "\n\n"))
	b.WriteString(centered(width, card))

	return b.String()
}

func renderVerseCard(verse catalog.Verse, width int) string {
	inner := min(width-8, 72)

	halves := strings.Split(verse.Text, " * ")
	arabic := theme.Verse.Width(inner).Render(strings.Join(halves, "\n"))
	translation := theme.Translation.Width(inner).Render(verse.Translation)

	card := theme.Card.Render(arabic + "\n\n" + translation)
	return centered(width, card)
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}
