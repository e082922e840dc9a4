// Package app wires the collaborators together and runs the TUI.
package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/admin"
	"github.com/mohdridwan/etasmik/internal/capture"
	"github.com/mohdridwan/etasmik/internal/config"
	"github.com/mohdridwan/etasmik/internal/judge"
	"github.com/mohdridwan/etasmik/internal/logging"
	"github.com/mohdridwan/etasmik/internal/router"
	"github.com/mohdridwan/etasmik/internal/screen"
	"github.com/mohdridwan/etasmik/internal/screens/dashboard"
	"github.com/mohdridwan/etasmik/internal/screens/onboarding"
	"github.com/mohdridwan/etasmik/internal/screens/welcome"
	"github.com/mohdridwan/etasmik/internal/session"
	"github.com/mohdridwan/etasmik/internal/store"
	"github.com/mohdridwan/etasmik/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   *session.Session
	width  int
	height int
}

// newAppModel creates the root model starting at the splash screen.
func newAppModel(sess *session.Session, gate *admin.Gate) AppModel {
	next := func() screen.Screen {
		if sess.State() == session.StateDashboard {
			return dashboard.New(sess, gate, func() screen.Screen {
				return onboarding.New(sess, gate)
			})
		}
		return onboarding.New(sess, gate)
	}
	return AppModel{
		router: router.New(welcome.New(next)),
		sess:   sess,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok {
				consumed, cmd := h.HandleEsc()
				if consumed {
					return m, cmd
				}
				if m.router.Depth() > 1 {
					return m, tea.Batch(cmd, func() tea.Msg { return router.PopScreenMsg{} })
				}
				return m, cmd
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var info layout.HeaderInfo
	if p := m.sess.Profile(); p != nil {
		info = layout.HeaderInfo{
			LearnerName: p.FullName,
			Progress:    m.sess.Progress(),
		}
	}
	header := layout.RenderHeader(title, info, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Keluar"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); hints != nil {
			footerHints = append(hints, footerHints...)
		}
	}

	var notice string
	if m.sess.SyncError() != nil {
		notice = "rekod belum disegerak"
	}
	footer := layout.RenderFooter(footerHints, notice, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run loads configuration, opens the stores and starts the TUI. Flag
// overrides, when non-empty, win over the config file.
func Run(configPath, dbPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := logging.Discard()
	if cfg.Logging.Path != "" {
		l, closer, err := logging.Open(cfg.Logging.Path)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer closer.Close()
		log = l
	}

	if dbPath == "" {
		dbPath = cfg.Storage.DBPath
	}
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return err
		}
	}
	if err := store.EnsureDir(dbPath); err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	j, err := judge.New(ctx, judgeConfig(cfg), st.EventRepo())
	if err != nil {
		return err
	}

	recorder := capture.NewExecRecorder(cfg.Recorder.Command, cfg.Recorder.MimeType)
	gate := admin.NewGate(cfg.Admin.SecretHash)

	sess := session.New(session.Options{
		Sessions:  st.SessionRepo(),
		Directory: st.DirectoryRepo(),
		Judge:     j,
		Recorder:  recorder,
		Online:    judge.NewOnlineProbe(judge.DefaultProbeAddr),
		Logger:    log,
	})
	sess.Restore(ctx)

	p := tea.NewProgram(newAppModel(sess, gate))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

func judgeConfig(cfg config.Config) judge.Config {
	return judge.Config{
		Provider: cfg.Judge.Provider,
		Gemini: judge.GeminiConfig{
			APIKey: cfg.Judge.GeminiAPIKey,
			Model:  cfg.Judge.GeminiModel,
		},
		OpenAI: judge.OpenAIConfig{
			APIKey: cfg.Judge.OpenAIAPIKey,
			Model:  cfg.Judge.OpenAIModel,
		},
		Timeout: time.Duration(cfg.Judge.TimeoutSeconds) * time.Second,
	}
}
