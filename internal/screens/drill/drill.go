// Package drill runs the tasmik loop: present a verse, record the
// learner's recitation, submit it for judging and show the verdict.
package drill

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mohdridwan/etasmik/internal/capture"
	"github.com/mohdridwan/etasmik/internal/judge"
	"github.com/mohdridwan/etasmik/internal/router"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
)

const tickInterval = 250 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// DrillScreen drives one tasmik sitting. The session state machine owns
// all transitions; the screen owns only the rendering state.
type DrillScreen struct {
	sess *session.Session

	recStart   time.Time
	recElapsed time.Duration
	spinFrame  int
	errMsg     string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.EscHandler = (*DrillScreen)(nil)

// New creates a drill screen over a session already in the drilling state.
func New(sess *session.Session) *DrillScreen {
	return &DrillScreen{sess: sess}
}

func (s *DrillScreen) Title() string {
	return "Tasmik"
}

func (s *DrillScreen) Init() tea.Cmd {
	return nil
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	switch s.sess.State() {
	case session.StateProcessing:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Batal"},
		}
	case session.StateResults:
		if s.sess.LastCorrect() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Bait seterusnya"},
				{Key: "R", Description: "Ulang"},
				{Key: "Esc", Description: "Papan pemuka"},
			}
		}
		return []layout.KeyHint{
			{Key: "R", Description: "Cuba lagi"},
			{Key: "Esc", Description: "Papan pemuka"},
		}
	}
	if s.sess.Recording() {
		return []layout.KeyHint{
			{Key: "Space", Description: "Henti & hantar"},
			{Key: "Esc", Description: "Buang rakaman"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Mula rakaman"},
		{Key: "Esc", Description: "Papan pemuka"},
	}
}

// HandleEsc cancels an active recording in place; otherwise it abandons
// the drill and lets the router pop back to the dashboard.
func (s *DrillScreen) HandleEsc() (bool, tea.Cmd) {
	if s.sess.Recording() {
		if err := s.sess.AbortRecording(); err == nil {
			s.errMsg = ""
			return true, nil
		}
	}
	_ = s.sess.ExitToDashboard(context.Background())
	return false, nil
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case verdictMsg:
		return s.handleVerdict(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// handleTick keeps the tick loop alive while there is something to
// animate: the elapsed counter during recording, the spinner while a
// verdict is pending.
func (s *DrillScreen) handleTick() (screen.Screen, tea.Cmd) {
	switch {
	case s.sess.Recording():
		s.recElapsed = time.Since(s.recStart)
		return s, s.tick()
	case s.sess.State() == session.StateProcessing:
		s.spinFrame = (s.spinFrame + 1) % len(spinnerFrames)
		return s, s.tick()
	}
	return s, nil
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.sess.State() {
	case session.StateDrilling:
		if msg.String() == "space" || msg.String() == " " {
			if s.sess.Recording() {
				return s.submitClip()
			}
			return s.startRecording()
		}

	case session.StateResults:
		switch msg.String() {
		case "enter":
			if !s.sess.LastCorrect() {
				return s, nil
			}
			done, err := s.sess.Advance()
			if err != nil {
				return s, nil
			}
			s.errMsg = ""
			if done {
				return s, tea.Sequence(
					func() tea.Msg { return router.PopScreenMsg{} },
					func() tea.Msg { return SequenceCompleteMsg{} },
				)
			}
			return s, nil
		case "r", "R":
			if err := s.sess.Retry(); err == nil {
				s.errMsg = ""
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *DrillScreen) startRecording() (screen.Screen, tea.Cmd) {
	if err := s.sess.StartRecording(context.Background()); err != nil {
		var perr *session.PermissionError
		switch {
		case errors.Is(err, session.ErrOffline):
			s.errMsg = "Tiada sambungan internet. Semak talian anda."
		case errors.As(err, &perr):
			s.errMsg = "Mikrofon tidak dapat diakses."
		default:
			s.errMsg = "Rakaman tidak dapat dimulakan."
		}
		return s, nil
	}
	s.errMsg = ""
	s.recStart = time.Now()
	s.recElapsed = 0
	return s, s.tick()
}

// submitClip stops the capture and hands the clip to the judge. The tick
// loop started by the recording keeps running and animates the spinner.
func (s *DrillScreen) submitClip() (screen.Screen, tea.Cmd) {
	clip, err := s.sess.StopRecording()
	if err != nil {
		if errors.Is(err, capture.ErrNoAudio) {
			s.errMsg = "Rakaman terlalu pendek. Cuba lagi."
		} else {
			s.errMsg = "Rakaman gagal. Cuba lagi."
		}
		return s, nil
	}
	s.errMsg = ""
	return s, s.evaluate(clip)
}

// evaluate runs the judging call off the update loop and reports back
// through a verdictMsg.
func (s *DrillScreen) evaluate(clip judge.Clip) tea.Cmd {
	sess := s.sess
	return func() tea.Msg {
		v, err := sess.Evaluate(context.Background(), clip)
		return verdictMsg{Verdict: v, Err: err}
	}
}

func (s *DrillScreen) handleVerdict(msg verdictMsg) (screen.Screen, tea.Cmd) {
	err := s.sess.ReceiveVerdict(context.Background(), msg.Verdict, msg.Err)
	if err != nil {
		var terr *session.TransitionError
		if errors.As(err, &terr) {
			// Late verdict after the learner left; nothing to show.
			return s, nil
		}
		s.errMsg = "Penilaian gagal. Semak talian dan cuba lagi."
	}
	return s, nil
}

func (s *DrillScreen) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
