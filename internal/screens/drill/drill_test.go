package drill

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mohdridwan/etasmik/internal/capture"
	"github.com/mohdridwan/etasmik/internal/judge"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/store"
)

func newDrillSession(t *testing.T, results ...judge.MockResult) *session.Session {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "etasmik.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := session.New(session.Options{
		Sessions:  st.SessionRepo(),
		Directory: st.DirectoryRepo(),
		Judge:     judge.NewMockJudge(results...),
		Recorder:  &capture.MockRecorder{ClipData: []byte("pcm")},
		Online:    func(context.Context) bool { return true },
	})
	if err := sess.Onboard(context.Background(), "Aiman Hakim", "120315-08-0551", "4 ASIM"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := sess.BeginDrill(); err != nil {
		t.Fatalf("begin drill: %v", err)
	}
	return sess
}

func pressSpace(t *testing.T, s *DrillScreen) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	return cmd
}

// recordAndSubmit walks the screen through record → stop → verdict.
func recordAndSubmit(t *testing.T, s *DrillScreen, sess *session.Session) {
	t.Helper()
	pressSpace(t, s)
	if !sess.Recording() {
		t.Fatal("space did not start recording")
	}
	cmd := pressSpace(t, s)
	if sess.State() != session.StateProcessing {
		t.Fatalf("state = %v, want processing after stop", sess.State())
	}
	if cmd == nil {
		t.Fatal("stop recording produced no command")
	}
	msg, ok := cmd().(verdictMsg)
	if !ok {
		t.Fatal("submit command did not produce a verdictMsg")
	}
	s.Update(msg)
}

func TestRecordSubmitPassVerdict(t *testing.T) {
	sess := newDrillSession(t, judge.MockResult{
		Verdict: &judge.Verdict{Score: 92, Transcription: "manzumatun"},
	})
	s := New(sess)

	recordAndSubmit(t, s, sess)

	if sess.State() != session.StateResults {
		t.Fatalf("state = %v, want results", sess.State())
	}
	if !sess.LastCorrect() {
		t.Error("score 92 not marked correct")
	}

	view := s.View(80, 24)
	if !strings.Contains(view, "LULUS") {
		t.Error("results view missing pass marker")
	}
	if !strings.Contains(view, "manzumatun") {
		t.Error("results view missing transcription")
	}
}

func TestEnterAdvancesAfterPass(t *testing.T) {
	sess := newDrillSession(t, judge.MockResult{Verdict: &judge.Verdict{Score: 95}})
	s := New(sess)

	recordAndSubmit(t, s, sess)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if sess.State() != session.StateDrilling {
		t.Fatalf("state = %v, want drilling on next verse", sess.State())
	}
	if sess.VerseIndex() != 1 {
		t.Errorf("VerseIndex = %d, want 1", sess.VerseIndex())
	}
}

func TestEnterBlockedAfterFail(t *testing.T) {
	sess := newDrillSession(t, judge.MockResult{Verdict: &judge.Verdict{Score: 40}})
	s := New(sess)

	recordAndSubmit(t, s, sess)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if sess.State() != session.StateResults {
		t.Fatalf("state = %v, enter should not leave results after a fail", sess.State())
	}

	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if sess.State() != session.StateDrilling {
		t.Errorf("state = %v, want drilling after retry", sess.State())
	}
	if sess.VerseIndex() != 0 {
		t.Errorf("VerseIndex = %d, retry must stay on the verse", sess.VerseIndex())
	}
}

func TestEscWhileRecordingAborts(t *testing.T) {
	sess := newDrillSession(t)
	s := New(sess)

	pressSpace(t, s)
	consumed, _ := s.HandleEsc()
	if !consumed {
		t.Fatal("esc while recording should be consumed")
	}
	if sess.Recording() {
		t.Error("recording still active after esc")
	}
	if sess.State() != session.StateDrilling {
		t.Errorf("state = %v, want drilling", sess.State())
	}
}

func TestEscFromVerseExitsToDashboard(t *testing.T) {
	sess := newDrillSession(t)
	s := New(sess)

	consumed, _ := s.HandleEsc()
	if consumed {
		t.Fatal("esc without recording should let the router pop")
	}
	if sess.State() != session.StateDashboard {
		t.Errorf("state = %v, want dashboard", sess.State())
	}
}

func TestInstantStopShowsTooShortMessage(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "etasmik.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := session.New(session.Options{
		Sessions:  st.SessionRepo(),
		Directory: st.DirectoryRepo(),
		Judge:     judge.NewMockJudge(),
		Recorder:  &capture.MockRecorder{StopErr: capture.ErrNoAudio},
		Online:    func(context.Context) bool { return true },
	})
	if err := sess.Onboard(context.Background(), "Aiman Hakim", "120315-08-0551", "4 ASIM"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := sess.BeginDrill(); err != nil {
		t.Fatalf("begin drill: %v", err)
	}
	s := New(sess)

	pressSpace(t, s)
	cmd := pressSpace(t, s)
	if cmd != nil {
		t.Error("a capture with no audio must not be submitted for judging")
	}
	if sess.State() != session.StateDrilling {
		t.Fatalf("state = %v, want drilling after an empty capture", sess.State())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "terlalu pendek") {
		t.Error("too-short message not shown after an empty capture")
	}
}

func TestJudgeFailureShowsErrorAndReturnsToVerse(t *testing.T) {
	sess := newDrillSession(t) // empty mock queue yields ErrUnavailable
	s := New(sess)

	recordAndSubmit(t, s, sess)

	if sess.State() != session.StateDrilling {
		t.Fatalf("state = %v, want drilling after judge failure", sess.State())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Penilaian gagal") {
		t.Error("error message not shown after judge failure")
	}
}
