package admindir

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mohdridwan/etasmik/internal/admin"
	"github.com/mohdridwan/etasmik/internal/judge"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/store"
)

func newAdminSetup(t *testing.T, secret string) (*session.Session, *admin.Gate) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "etasmik.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := session.New(session.Options{
		Sessions:  st.SessionRepo(),
		Directory: st.DirectoryRepo(),
		Judge:     judge.NewMockJudge(),
	})
	if err := sess.Onboard(context.Background(), "Aiman Hakim", "120315-08-0551", "4 ASIM"); err != nil {
		t.Fatalf("onboard: %v", err)
	}

	hash, err := admin.HashSecret(secret)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	return sess, admin.NewGate(hash)
}

func typeString(s *AdminDirScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestWrongSecretStaysGated(t *testing.T) {
	sess, gate := newAdminSetup(t, "rahsia-guru")
	s := New(sess, gate)
	s.Init()

	typeString(s, "salah")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.mode != modeGate {
		t.Fatal("wrong secret unlocked the directory")
	}
	if sess.State() == session.StateAdminDirectory {
		t.Error("session entered admin state without a valid secret")
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "Kata laluan salah") {
		t.Error("wrong-secret message not shown")
	}
}

func TestCorrectSecretShowsDirectory(t *testing.T) {
	sess, gate := newAdminSetup(t, "rahsia-guru")
	s := New(sess, gate)
	s.Init()

	typeString(s, "rahsia-guru")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.mode != modeList {
		t.Fatal("correct secret did not unlock the directory")
	}
	if sess.State() != session.StateAdminDirectory {
		t.Fatalf("session state = %v, want admin directory", sess.State())
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "AIMAN HAKIM") {
		t.Error("registered learner missing from directory view")
	}

	// Leaving the view returns the session to the dashboard.
	s.HandleEsc()
	if sess.State() != session.StateDashboard {
		t.Errorf("session state = %v after close, want dashboard", sess.State())
	}
}

func TestUnconfiguredGateRefuses(t *testing.T) {
	sess, _ := newAdminSetup(t, "unused")
	s := New(sess, admin.NewGate(""))
	s.Init()

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.mode != modeGate {
		t.Fatal("unconfigured gate unlocked the directory")
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "belum dikonfigurasi") {
		t.Error("not-configured message missing")
	}
}
