// Package onboarding implements learner registration and resume-by-IC.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/admin"
	"github.com/mohdridwan/etasmik/internal/learner"
	"github.com/mohdridwan/etasmik/internal/router"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/screens/dashboard"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/store"
	"github.com/mohdridwan/etasmik/internal/ui/components"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

type mode int

const (
	modeMenu mode = iota
	modeRegister
	modeResume
	modeConfirmOverwrite
)

const (
	focusName = iota
	focusIC
	focusClass
)

// OnboardingScreen collects a new learner's details or resumes a
// registered one by IC number.
type OnboardingScreen struct {
	sess *session.Session
	gate *admin.Gate

	mode  mode
	menu  components.Menu
	focus int

	nameInput   components.TextInput
	icInput     components.TextInput
	classChoice components.Choice

	resumeInput components.TextInput

	// existing directory entry awaiting overwrite confirmation
	existing *store.DirectoryEntry
	errMsg   string
}

var _ screen.Screen = (*OnboardingScreen)(nil)
var _ screen.KeyHintProvider = (*OnboardingScreen)(nil)

// New creates the onboarding screen.
func New(sess *session.Session, gate *admin.Gate) *OnboardingScreen {
	items := []components.MenuItem{
		{Label: "DAFTAR PELAJAR BARU"},
		{Label: "SAMBUNG DENGAN NO. KP"},
	}
	s := &OnboardingScreen{
		sess:        sess,
		gate:        gate,
		menu:        components.NewMenu(items),
		nameInput:   components.NewTextInput("Nama penuh...", false, 40),
		icInput:     components.NewTextInput("misalnya 120315-08-0551", true, 14),
		classChoice: components.NewChoice("Kelas", learner.Classes),
		resumeInput: components.NewTextInput("No. kad pengenalan...", true, 14),
	}
	s.menu.Items[0].Action = s.enterRegister
	s.menu.Items[1].Action = s.enterResume
	return s
}

func (s *OnboardingScreen) Title() string {
	return "Pendaftaran"
}

func (s *OnboardingScreen) Init() tea.Cmd {
	return nil
}

func (s *OnboardingScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeRegister:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Medan seterusnya"},
			{Key: "Enter", Description: "Daftar"},
			{Key: "Esc", Description: "Kembali"},
		}
	case modeResume:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Sambung"},
			{Key: "Esc", Description: "Kembali"},
		}
	case modeConfirmOverwrite:
		return []layout.KeyHint{
			{Key: "S", Description: "Sambung rekod lama"},
			{Key: "Y", Description: "Ganti rekod"},
			{Key: "N", Description: "Batal"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Teruskan"},
	}
}

// HandleEsc backs out of a form to the mode menu instead of popping the
// screen; onboarding is the bottom of the stack.
func (s *OnboardingScreen) HandleEsc() (bool, tea.Cmd) {
	if s.mode != modeMenu {
		s.mode = modeMenu
		s.errMsg = ""
		s.existing = nil
		return true, nil
	}
	return true, nil
}

func (s *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeMenu:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	case modeRegister:
		return s.updateRegister(msg)
	case modeResume:
		return s.updateResume(msg)
	case modeConfirmOverwrite:
		return s.updateConfirm(msg)
	}
	return s, nil
}

func (s *OnboardingScreen) enterRegister() tea.Cmd {
	s.mode = modeRegister
	s.focus = focusName
	s.errMsg = ""
	s.nameInput.Reset()
	s.icInput.Reset()
	s.classChoice.Focused = false
	s.icInput.Blur()
	return s.nameInput.Focus()
}

func (s *OnboardingScreen) enterResume() tea.Cmd {
	s.mode = modeResume
	s.errMsg = ""
	s.resumeInput.Reset()
	return s.resumeInput.Focus()
}

func (s *OnboardingScreen) updateRegister(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "shift+tab", "down", "up":
			if kmsg.String() == "shift+tab" || kmsg.String() == "up" {
				s.focus = (s.focus + 2) % 3
			} else {
				s.focus = (s.focus + 1) % 3
			}
			return s, s.applyFocus()
		case "enter":
			return s, s.submitRegister()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusName:
		s.nameInput, cmd = s.nameInput.Update(msg)
	case focusIC:
		s.icInput, cmd = s.icInput.Update(msg)
	case focusClass:
		s.classChoice, cmd = s.classChoice.Update(msg)
	}
	return s, cmd
}

func (s *OnboardingScreen) applyFocus() tea.Cmd {
	s.nameInput.Blur()
	s.icInput.Blur()
	s.classChoice.Focused = false
	switch s.focus {
	case focusName:
		return s.nameInput.Focus()
	case focusIC:
		return s.icInput.Focus()
	case focusClass:
		s.classChoice.Focused = true
	}
	return nil
}

func (s *OnboardingScreen) submitRegister() tea.Cmd {
	ctx := context.Background()

	entry, err := s.sess.CheckExisting(ctx, s.icInput.Value())
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			s.errMsg = "No. KP tidak sah. Semak semula."
		} else {
			s.errMsg = "Direktori tidak dapat dicapai."
		}
		return nil
	}
	if strings.TrimSpace(s.nameInput.Value()) == "" {
		s.errMsg = "Nama penuh diperlukan."
		return nil
	}
	if entry != nil {
		s.existing = entry
		s.mode = modeConfirmOverwrite
		return nil
	}
	return s.register()
}

func (s *OnboardingScreen) register() tea.Cmd {
	err := s.sess.Onboard(context.Background(),
		s.nameInput.Value(), s.icInput.Value(), s.classChoice.Value())
	if err != nil {
		s.errMsg = "Pendaftaran gagal. Semak maklumat anda."
		s.mode = modeRegister
		return nil
	}
	return s.toDashboard()
}

func (s *OnboardingScreen) updateResume(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		err := s.sess.Resume(context.Background(), s.resumeInput.Value())
		switch {
		case err == nil:
			return s, s.toDashboard()
		case isNotFound(err):
			s.resumeInput.Submit(false)
			s.errMsg = "No. KP tidak berdaftar. Sila daftar dahulu."
		case isValidation(err):
			s.resumeInput.Submit(false)
			s.errMsg = "No. KP tidak sah. Semak semula."
		default:
			s.errMsg = "Direktori tidak dapat dicapai."
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.resumeInput, cmd = s.resumeInput.Update(msg)
	return s, cmd
}

func (s *OnboardingScreen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "s", "S":
		// Adopt the registered record instead of replacing it.
		if err := s.sess.Resume(context.Background(), s.icInput.Value()); err != nil {
			s.errMsg = "Direktori tidak dapat dicapai."
			s.existing = nil
			s.mode = modeRegister
			return s, nil
		}
		s.existing = nil
		return s, s.toDashboard()
	case "y", "Y":
		s.existing = nil
		return s, s.register()
	case "n", "N", "esc":
		s.existing = nil
		s.mode = modeRegister
	}
	return s, nil
}

func (s *OnboardingScreen) toDashboard() tea.Cmd {
	sess, gate := s.sess, s.gate
	next := dashboard.New(sess, gate, func() screen.Screen {
		return New(sess, gate)
	})
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func isNotFound(err error) bool {
	var nerr *session.NotFoundError
	return errors.As(err, &nerr)
}

func isValidation(err error) bool {
	var verr *session.ValidationError
	return errors.As(err, &verr)
}

func (s *OnboardingScreen) View(width, height int) string {
	var b strings.Builder

	title := theme.Title.Width(width).Render("Selamat Datang ke e-Tasmik")
	sub := theme.Subtitle.Width(width).Render("Matan al-Bayquniyyah · 34 bait")
	b.WriteString("\n" + title + "\n" + sub + "\n\n")

	switch s.mode {
	case modeMenu:
		b.WriteString(centered(width, s.menu.View()))
	case modeRegister:
		b.WriteString(s.viewRegister(width))
	case modeResume:
		b.WriteString(s.viewResume(width))
	case modeConfirmOverwrite:
		b.WriteString(s.viewConfirm(width))
	}

	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

func (s *OnboardingScreen) viewRegister(width int) string {
	label := func(text string, active bool) string {
		st := lipgloss.NewStyle().Foreground(theme.TextDim)
		if active {
			st = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		return st.Render(fmt.Sprintf("%-16s", text))
	}

	rows := []string{
		label("Nama penuh", s.focus == focusName) + s.nameInput.View(),
		label("No. KP", s.focus == focusIC) + s.icInput.View(),
		label("Kelas", s.focus == focusClass) + s.classChoice.View(),
	}
	card := theme.Card.Render(strings.Join(rows, "\n\n"))
	return centered(width, card)
}

func (s *OnboardingScreen) viewResume(width int) string {
	card := theme.Card.Render("No. KP  " + s.resumeInput.View())
	return centered(width, card)
}

func (s *OnboardingScreen) viewConfirm(width int) string {
	name := ""
	if s.existing != nil {
		name = s.existing.Profile.FullName
	}
	msg := fmt.Sprintf(
		"No. KP ini sudah berdaftar atas nama\n%s\n\nTekan S untuk sambung rekod lama.\nDaftar semula (Y) akan memadam rekod lama.",
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(name),
	)
	card := theme.Card.BorderForeground(theme.Error).Render(msg)
	return centered(width, card)
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}
