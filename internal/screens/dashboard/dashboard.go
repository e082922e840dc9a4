// Package dashboard is the signed-in home screen.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/admin"
	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/router"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/screens/admindir"
	"github.com/mohdridwan/etasmik/internal/screens/drill"
	"github.com/mohdridwan/etasmik/internal/screens/report"
	"github.com/mohdridwan/etasmik/internal/screens/study"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/ui/components"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

// DashboardScreen shows progress and the main navigation menu.
type DashboardScreen struct {
	sess           *session.Session
	gate           *admin.Gate
	onboardFactory func() screen.Screen

	menu           components.Menu
	confirmLogout  bool
	completionNote bool
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard. onboardFactory builds the screen shown
// after logout.
func New(sess *session.Session, gate *admin.Gate, onboardFactory func() screen.Screen) *DashboardScreen {
	s := &DashboardScreen{
		sess:           sess,
		gate:           gate,
		onboardFactory: onboardFactory,
	}

	items := []components.MenuItem{
		{Label: "MULA TASMIK", Action: s.startDrill},
		{Label: "KAJI MATAN", Action: s.openStudy},
		{Label: "LAPORAN PRESTASI", Action: s.openReport},
		{Label: "DIREKTORI GURU", Action: s.openAdmin},
		{Label: "LOG KELUAR", Action: s.askLogout},
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *DashboardScreen) Title() string {
	return "Papan Pemuka"
}

func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	if s.confirmLogout {
		return []layout.KeyHint{
			{Key: "Y", Description: "Log keluar"},
			{Key: "N", Description: "Kekal"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Buka"},
		{Key: "Ctrl+C", Description: "Keluar"},
	}
}

func (s *DashboardScreen) startDrill() tea.Cmd {
	if err := s.sess.BeginDrill(); err != nil {
		return nil
	}
	s.completionNote = false
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: drill.New(s.sess)}
	}
}

func (s *DashboardScreen) openStudy() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: study.New()}
	}
}

func (s *DashboardScreen) openReport() tea.Cmd {
	if err := s.sess.OpenReport(); err != nil {
		return nil
	}
	profile := s.sess.Profile()
	history := s.sess.History()
	sess := s.sess
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: report.New(*profile, history, func() { sess.CloseReport() }),
		}
	}
}

func (s *DashboardScreen) openAdmin() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: admindir.New(s.sess, s.gate)}
	}
}

func (s *DashboardScreen) askLogout() tea.Cmd {
	s.confirmLogout = true
	return nil
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.confirmLogout {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			switch kmsg.String() {
			case "y", "Y":
				s.confirmLogout = false
				if err := s.sess.Logout(context.Background()); err != nil {
					return s, nil
				}
				next := s.onboardFactory()
				return s, func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: next}
				}
			case "n", "N", "esc":
				s.confirmLogout = false
			}
		}
		return s, nil
	}

	// Drill sets this when the whole catalog has been passed.
	if _, ok := msg.(drill.SequenceCompleteMsg); ok {
		s.completionNote = true
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *DashboardScreen) View(width, height int) string {
	profile := s.sess.Profile()
	if profile == nil {
		return ""
	}

	var b strings.Builder

	greeting := theme.Title.Width(width).Render(
		fmt.Sprintf("Ahlan, %s", profile.FullName))
	class := theme.Subtitle.Width(width).Render(profile.ClassName)
	b.WriteString("\n" + greeting + "\n" + class + "\n\n")

	passed := len(s.sess.History().PassedVerses())
	progress := s.sess.Progress()

	barWidth := width / 2
	if barWidth < 30 {
		barWidth = 30
	}
	bar := components.NewProgressBar("Hafazan", float64(progress)/100, true, barWidth)
	stats := fmt.Sprintf("%d / %d bait lulus", passed, catalog.Size())

	card := theme.Card.Render(
		bar.View() + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(stats))
	b.WriteString(centered(width, card))
	b.WriteString("\n\n")

	if s.completionNote {
		note := lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true).
			Width(width).
			Align(lipgloss.Center).
			Render("Tahniah! Anda telah menamatkan keseluruhan matan. ✦")
		b.WriteString(note + "\n\n")
	}

	if s.confirmLogout {
		confirm := theme.Card.BorderForeground(theme.Error).Render(
			"Log keluar? Rekod anda kekal dalam direktori.")
		b.WriteString(centered(width, confirm))
	} else {
		b.WriteString(centered(width, s.menu.View()))
	}

	if err := s.sess.SyncError(); err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Amaran: rekod tidak dapat disimpan sepenuhnya."))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}
