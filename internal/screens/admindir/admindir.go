// Package admindir is the teacher-facing directory: an operator-secret
// gate, then the list of every registered learner. Selecting a learner
// opens their report read-only; the active session is never touched.
package admindir

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/admin"
	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/router"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/screens/report"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/store"
	"github.com/mohdridwan/etasmik/internal/ui/components"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

type mode int

const (
	modeGate mode = iota
	modeList
)

// AdminDirScreen gates and renders the learner directory.
type AdminDirScreen struct {
	sess *session.Session
	gate *admin.Gate

	mode     mode
	secret   components.TextInput
	entries  []store.DirectoryEntry
	selected int
	errMsg   string
}

var _ screen.Screen = (*AdminDirScreen)(nil)
var _ screen.KeyHintProvider = (*AdminDirScreen)(nil)
var _ screen.EscHandler = (*AdminDirScreen)(nil)

// New creates the directory screen in its gated state.
func New(sess *session.Session, gate *admin.Gate) *AdminDirScreen {
	return &AdminDirScreen{
		sess:   sess,
		gate:   gate,
		secret: components.NewSecretInput("Kata laluan guru...", 64),
	}
}

func (s *AdminDirScreen) Title() string {
	return "Direktori Guru"
}

func (s *AdminDirScreen) Init() tea.Cmd {
	return s.secret.Focus()
}

func (s *AdminDirScreen) KeyHints() []layout.KeyHint {
	if s.mode == modeGate {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Sahkan"},
			{Key: "Esc", Description: "Kembali"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Lihat laporan"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *AdminDirScreen) HandleEsc() (bool, tea.Cmd) {
	if s.mode == modeList {
		_ = s.sess.CloseAdmin()
	}
	return false, nil
}

func (s *AdminDirScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.mode == modeGate {
		return s.updateGate(msg)
	}
	return s.updateList(msg)
}

func (s *AdminDirScreen) updateGate(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		switch err := s.gate.Verify(s.secret.Value()); {
		case err == nil:
			return s.unlock()
		case errors.Is(err, admin.ErrLockedOut):
			s.errMsg = "Terlalu banyak percubaan. Tunggu sebentar."
		case errors.Is(err, admin.ErrNotConfigured):
			s.errMsg = "Akses guru belum dikonfigurasi."
		default:
			s.errMsg = "Kata laluan salah."
		}
		s.secret.Reset()
		return s, nil
	}

	var cmd tea.Cmd
	s.secret, cmd = s.secret.Update(msg)
	return s, cmd
}

func (s *AdminDirScreen) unlock() (screen.Screen, tea.Cmd) {
	if err := s.sess.OpenAdmin(); err != nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	entries, err := s.sess.Directory(context.Background())
	if err != nil {
		s.errMsg = "Direktori tidak dapat dibaca."
		_ = s.sess.CloseAdmin()
		return s, nil
	}
	s.entries = entries
	s.selected = 0
	s.errMsg = ""
	s.mode = modeList
	return s, nil
}

func (s *AdminDirScreen) updateList(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < 0 || s.selected >= len(s.entries) {
			return s, nil
		}
		entry := s.entries[s.selected]
		return s, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: report.New(entry.Profile, entry.History, nil),
			}
		}
	}
	return s, nil
}

func (s *AdminDirScreen) View(width, height int) string {
	var content string
	if s.mode == modeGate {
		content = s.viewGate(width)
	} else {
		content = s.viewList(width, height)
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, content)
}

func (s *AdminDirScreen) viewGate(width int) string {
	var b strings.Builder
	title := theme.Title.Width(width).Render("Akses Guru")
	b.WriteString("\n\n" + title + "\n\n")

	card := theme.Card.Render("Kata laluan  " + s.secret.View())
	b.WriteString(centered(width, card))

	if s.errMsg != "" {
		b.WriteString("\n\n" + centered(width,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *AdminDirScreen) viewList(width, height int) string {
	var b strings.Builder

	count := theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d pelajar berdaftar", len(s.entries)))
	b.WriteString("\n" + count + "\n\n")

	if len(s.entries) == 0 {
		b.WriteString(centered(width, theme.Hint.Render("Tiada pelajar dalam direktori.")))
		return b.String()
	}

	header := fmt.Sprintf("   %-28s %-14s %-10s %s", "NAMA", "NO. KP", "KELAS", "HAFAZAN")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header))
	b.WriteString("\n")

	visible := height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := start + visible
	if end > len(s.entries) {
		end = len(s.entries)
	}

	for i := start; i < end; i++ {
		e := s.entries[i]
		progress := e.History.ProgressPercent(catalog.Size())
		row := fmt.Sprintf("%-28s %-14s %-10s %3d%%",
			e.Profile.FullName, e.Profile.ICNumber, e.Profile.ClassName, progress)
		if i == s.selected {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render(" ▸ " + row))
		} else {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + row))
		}
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n" + centered(width,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}

	return b.String()
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}
