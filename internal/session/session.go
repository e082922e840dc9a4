// Package session holds the guarded state machine that drives the app.
// A Session owns the signed-in learner, the drill position, and the
// verdict under review, and it is the only place those are mutated.
// All methods must be called from a single goroutine; the TUI calls
// them from its update loop and runs judging in commands that feed the
// result back through ReceiveVerdict.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mohdridwan/etasmik/internal/capture"
	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/judge"
	"github.com/mohdridwan/etasmik/internal/learner"
	"github.com/mohdridwan/etasmik/internal/logging"
	"github.com/mohdridwan/etasmik/internal/store"
)

// PassThreshold is the minimum verdict score that marks a verse passed.
const PassThreshold = 85

// Options carries the collaborators a Session needs. Sessions, Directory
// and Judge are required; the rest default to working implementations.
type Options struct {
	Sessions  store.SessionRepo
	Directory store.DirectoryRepo
	Judge     judge.Judge
	Recorder  capture.Recorder
	Online    judge.OnlineProbe
	Logger    *slog.Logger

	// Now and NewID exist for tests.
	Now   func() time.Time
	NewID func() string
}

// Session is the application state machine.
type Session struct {
	sessions  store.SessionRepo
	directory store.DirectoryRepo
	judge     judge.Judge
	recorder  capture.Recorder
	online    judge.OnlineProbe
	log       *slog.Logger
	now       func() time.Time
	newID     func() string

	state       State
	profile     *learner.Profile
	history     learner.History
	verseIdx    int
	recording   bool
	verdict     *judge.Verdict
	lastCorrect bool
	syncErr     error
}

// New builds a Session in the onboarding state.
func New(opts Options) *Session {
	s := &Session{
		sessions:  opts.Sessions,
		directory: opts.Directory,
		judge:     opts.Judge,
		recorder:  opts.Recorder,
		online:    opts.Online,
		log:       opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
		state:     StateOnboarding,
	}
	if s.recorder == nil {
		s.recorder = capture.NewExecRecorder(capture.DefaultCommand, capture.PCMMimeType)
	}
	if s.online == nil {
		s.online = func(context.Context) bool { return true }
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// State reports the current state.
func (s *Session) State() State { return s.state }

// Profile returns the signed-in learner, or nil before onboarding.
func (s *Session) Profile() *learner.Profile { return s.profile }

// History returns the signed-in learner's attempts, newest first.
func (s *Session) History() learner.History { return s.history }

// Verdict returns the verdict under review, or nil outside Results.
func (s *Session) Verdict() *judge.Verdict { return s.verdict }

// LastCorrect reports whether the verdict under review passed.
func (s *Session) LastCorrect() bool { return s.lastCorrect }

// Recording reports whether audio capture is active.
func (s *Session) Recording() bool { return s.recording }

// VerseIndex is the catalog position of the verse being drilled.
func (s *Session) VerseIndex() int { return s.verseIdx }

// CurrentVerse returns the verse being drilled.
func (s *Session) CurrentVerse() catalog.Verse {
	v, _ := catalog.At(s.verseIdx)
	return v
}

// Progress is the learner's completion percentage over the catalog.
func (s *Session) Progress() int { return s.history.ProgressPercent(catalog.Size()) }

// SyncError returns the most recent persistence failure, or nil. It is
// informational; transitions proceed even when a write fails.
func (s *Session) SyncError() error { return s.syncErr }

// Restore loads a previously saved session, moving to the dashboard when
// one exists. Called once at startup from the onboarding state. A load
// failure is logged and leaves the session at onboarding.
func (s *Session) Restore(ctx context.Context) {
	if s.state != StateOnboarding {
		return
	}
	profile, history, err := s.sessions.Load(ctx)
	if err != nil {
		s.log.Warn("session restore failed", "error", err)
		return
	}
	if profile == nil {
		return
	}
	s.profile = profile
	s.history = history
	s.state = StateDashboard
	s.log.Info("session restored", "ic", profile.ICNumber)
}

// CheckExisting looks up a directory entry by raw IC number without
// changing state. Onboarding uses it to warn before overwriting an
// existing learner's record.
func (s *Session) CheckExisting(ctx context.Context, rawIC string) (*store.DirectoryEntry, error) {
	ic := learner.NormalizeIC(rawIC)
	if err := learner.ValidateIC(ic); err != nil {
		return nil, &ValidationError{Field: "IC number", Err: err}
	}
	entry, err := s.directory.Get(ctx, ic)
	if err != nil {
		return nil, &ServiceError{Op: "directory lookup", Err: err}
	}
	return entry, nil
}

// Onboard registers a new learner and moves to the dashboard. Any
// existing directory entry for the same IC is replaced with a fresh
// history; callers confirm that with the learner first via CheckExisting.
func (s *Session) Onboard(ctx context.Context, fullName, rawIC, className string) error {
	if s.state != StateOnboarding {
		return &TransitionError{Op: "onboard", State: s.state}
	}
	profile, err := learner.NewProfile(fullName, rawIC, className)
	if err != nil {
		return &ValidationError{Field: "profile", Err: err}
	}
	s.profile = &profile
	s.history = nil
	s.state = StateDashboard
	s.persist(ctx)
	s.log.Info("learner onboarded", "ic", profile.ICNumber, "class", profile.ClassName)
	return nil
}

// Resume signs in a learner already present in the directory, adopting
// the directory copy of their history. A miss returns NotFoundError and
// leaves the state unchanged.
func (s *Session) Resume(ctx context.Context, rawIC string) error {
	if s.state != StateOnboarding {
		return &TransitionError{Op: "resume", State: s.state}
	}
	ic := learner.NormalizeIC(rawIC)
	if err := learner.ValidateIC(ic); err != nil {
		return &ValidationError{Field: "IC number", Err: err}
	}
	entry, err := s.directory.Get(ctx, ic)
	if err != nil {
		return &ServiceError{Op: "directory lookup", Err: err}
	}
	if entry == nil {
		return &NotFoundError{IC: ic}
	}
	s.profile = &entry.Profile
	s.history = entry.History
	s.state = StateDashboard
	s.persist(ctx)
	s.log.Info("learner resumed", "ic", ic, "attempts", len(entry.History))
	return nil
}

// BeginDrill enters the drill at the first verse not yet passed.
func (s *Session) BeginDrill() error {
	if s.state != StateDashboard {
		return &TransitionError{Op: "begin drill", State: s.state}
	}
	s.verseIdx = s.history.NextIncompleteIndex(catalog.All())
	s.verdict = nil
	s.state = StateDrilling
	return nil
}

// StartRecording begins audio capture for the current verse. It is
// refused while the judging service is unreachable, so a clip is never
// captured that cannot be scored.
func (s *Session) StartRecording(ctx context.Context) error {
	if s.state != StateDrilling || s.recording {
		return &TransitionError{Op: "start recording", State: s.state}
	}
	if !s.online(ctx) {
		return &PermissionError{Msg: "judging service unreachable, check your connection", Err: ErrOffline}
	}
	if err := s.recorder.Start(ctx); err != nil {
		return &PermissionError{Msg: "microphone unavailable", Err: err}
	}
	s.recording = true
	return nil
}

// AbortRecording discards an active capture and stays on the verse.
// Nothing is judged and no attempt is recorded.
func (s *Session) AbortRecording() error {
	if s.state != StateDrilling || !s.recording {
		return &TransitionError{Op: "abort recording", State: s.state}
	}
	s.recorder.Cancel()
	s.recording = false
	return nil
}

// StopRecording ends capture and moves to Processing. The returned clip
// is the caller's to hand to Evaluate on a background goroutine.
func (s *Session) StopRecording() (judge.Clip, error) {
	if s.state != StateDrilling || !s.recording {
		return judge.Clip{}, &TransitionError{Op: "stop recording", State: s.state}
	}
	clip, err := s.recorder.Stop()
	s.recording = false
	if err != nil {
		return judge.Clip{}, &ServiceError{Op: "audio capture", Err: err}
	}
	clip.VerseID = s.CurrentVerse().ID
	s.state = StateProcessing
	return clip, nil
}

// Evaluate scores a clip against the current verse. It does not touch
// session state and is safe to call from a background goroutine; feed
// the result back through ReceiveVerdict on the update loop.
func (s *Session) Evaluate(ctx context.Context, clip judge.Clip) (*judge.Verdict, error) {
	return s.judge.Evaluate(ctx, clip, s.CurrentVerse().Text)
}

// ReceiveVerdict records the outcome of a judged attempt. On a judging
// failure the drill returns to the verse with no attempt recorded and a
// ServiceError is returned for display. A late verdict arriving after
// the learner left Processing is dropped.
func (s *Session) ReceiveVerdict(ctx context.Context, verdict *judge.Verdict, judgeErr error) error {
	if s.state != StateProcessing {
		return &TransitionError{Op: "receive verdict", State: s.state}
	}
	if judgeErr != nil {
		s.state = StateDrilling
		return &ServiceError{Op: "judging", Err: judgeErr}
	}
	verse := s.CurrentVerse()
	attempt := learner.Attempt{
		ID:        s.newID(),
		VerseID:   verse.ID,
		VerseText: verse.Text,
		Score:     verdict.Score,
		IsCorrect: verdict.Score >= PassThreshold,
		Timestamp: s.now().UnixMilli(),
	}
	s.history = s.history.Prepend(attempt)
	s.verdict = verdict
	s.lastCorrect = attempt.IsCorrect
	s.state = StateResults
	s.persist(ctx)
	s.log.Info("verdict recorded",
		"verse", verse.ID, "score", verdict.Score, "passed", attempt.IsCorrect)
	return nil
}

// Advance moves to the next verse after a pass. It reports true when the
// catalog is complete, in which case the session returns to the
// dashboard. Advancing on a failed verdict is refused.
func (s *Session) Advance() (bool, error) {
	if s.state != StateResults {
		return false, &TransitionError{Op: "advance", State: s.state}
	}
	if !s.lastCorrect {
		return false, &PermissionError{Msg: "verse not passed yet, retry to continue"}
	}
	s.verdict = nil
	if s.verseIdx+1 >= catalog.Size() {
		s.state = StateDashboard
		return true, nil
	}
	s.verseIdx++
	s.state = StateDrilling
	return false, nil
}

// Retry returns to the drill on the same verse. The recorded attempt is
// kept; retrying never rewrites history.
func (s *Session) Retry() error {
	if s.state != StateResults {
		return &TransitionError{Op: "retry", State: s.state}
	}
	s.verdict = nil
	s.state = StateDrilling
	return nil
}

// ExitToDashboard abandons the drill from any drill-side state. An
// active capture is discarded; a verdict still in flight will be dropped
// when it lands.
func (s *Session) ExitToDashboard(ctx context.Context) error {
	switch s.state {
	case StateDrilling, StateProcessing, StateResults:
	default:
		return &TransitionError{Op: "exit to dashboard", State: s.state}
	}
	if s.recording {
		s.recorder.Cancel()
		s.recording = false
	}
	s.verdict = nil
	s.state = StateDashboard
	s.persist(ctx)
	return nil
}

// Logout signs the learner out and returns to onboarding. The shared
// directory entry is kept; only the local session is cleared.
func (s *Session) Logout(ctx context.Context) error {
	if s.profile == nil {
		return &TransitionError{Op: "logout", State: s.state}
	}
	if s.recording {
		s.recorder.Cancel()
		s.recording = false
	}
	s.syncDirectory(ctx)
	if err := s.sessions.Clear(ctx); err != nil {
		s.log.Warn("local session clear failed", "error", err)
	}
	s.log.Info("learner logged out", "ic", s.profile.ICNumber)
	s.profile = nil
	s.history = nil
	s.verdict = nil
	s.verseIdx = 0
	s.state = StateOnboarding
	return nil
}

// OpenReport shows the learner's own progress report.
func (s *Session) OpenReport() error {
	if s.state != StateDashboard {
		return &TransitionError{Op: "open report", State: s.state}
	}
	s.state = StateReport
	return nil
}

// CloseReport returns from the report to the dashboard.
func (s *Session) CloseReport() error {
	if s.state != StateReport {
		return &TransitionError{Op: "close report", State: s.state}
	}
	s.state = StateDashboard
	return nil
}

// OpenAdmin enters the teacher directory view. The caller is responsible
// for verifying the admin secret first.
func (s *Session) OpenAdmin() error {
	if s.state != StateDashboard {
		return &TransitionError{Op: "open admin directory", State: s.state}
	}
	s.state = StateAdminDirectory
	return nil
}

// CloseAdmin returns from the directory view to the dashboard.
func (s *Session) CloseAdmin() error {
	if s.state != StateAdminDirectory {
		return &TransitionError{Op: "close admin directory", State: s.state}
	}
	s.state = StateDashboard
	return nil
}

// Directory lists every learner known to the shared directory, for the
// admin view. Viewing another learner never touches the active session.
func (s *Session) Directory(ctx context.Context) ([]store.DirectoryEntry, error) {
	entries, err := s.directory.All(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "directory listing", Err: err}
	}
	return entries, nil
}

// persist writes the active session to both stores. Failures are logged
// and retained in SyncError but never block a transition.
func (s *Session) persist(ctx context.Context) {
	s.syncErr = nil
	if err := s.sessions.Save(ctx, *s.profile, s.history); err != nil {
		s.syncErr = err
		s.log.Warn("local session save failed", "error", err)
	}
	s.syncDirectory(ctx)
}

func (s *Session) syncDirectory(ctx context.Context) {
	if s.profile == nil {
		return
	}
	entry := store.DirectoryEntry{
		Profile:  *s.profile,
		History:  s.history,
		LastSync: s.now().UnixMilli(),
	}
	if err := s.directory.Put(ctx, entry); err != nil {
		s.syncErr = err
		s.log.Warn("directory sync failed", "ic", s.profile.ICNumber, "error", err)
	}
}
