package judge

import (
	"context"
	"time"

	"github.com/mohdridwan/etasmik/internal/store"
)

// NoReadingDetected is the error entry substituted when the trust boundary
// rejects a verdict whose transcription is too short to be real.
const NoReadingDetected = "Bacaan tidak jelas atau tiada bacaan dikesan."

// minTranscriptionRunes is the minimum transcription length below which a
// returned score is not trusted.
const minTranscriptionRunes = 5

// trustBoundaryJudge corrects for a service that may hallucinate a score
// without a real transcription: an empty or near-empty transcription forces
// the score to zero regardless of what the service claimed.
type trustBoundaryJudge struct {
	inner Judge
}

// WithTrustBoundary wraps a Judge with the forced-zero transcription rule.
func WithTrustBoundary(j Judge) Judge {
	return &trustBoundaryJudge{inner: j}
}

func (t *trustBoundaryJudge) Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error) {
	v, err := t.inner.Evaluate(ctx, clip, expectedText)
	if err != nil {
		return nil, err
	}
	if len([]rune(v.Transcription)) < minTranscriptionRunes {
		v.Score = 0
		v.Errors = []string{NoReadingDetected}
	}
	return v, nil
}

func (t *trustBoundaryJudge) ModelID() string { return t.inner.ModelID() }

// timeoutJudge bounds every evaluation with a deadline. The remote service
// imposes no usable timeout of its own, so the caller supplies one to avoid
// indefinite hangs.
type timeoutJudge struct {
	inner   Judge
	timeout time.Duration
}

// WithTimeout wraps a Judge with a per-call deadline.
func WithTimeout(j Judge, timeout time.Duration) Judge {
	if timeout <= 0 {
		return j
	}
	return &timeoutJudge{inner: j, timeout: timeout}
}

func (t *timeoutJudge) Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Evaluate(ctx, clip, expectedText)
}

func (t *timeoutJudge) ModelID() string { return t.inner.ModelID() }

// eventLogJudge appends a judge event to the store for every evaluation.
// Logging failures never affect the verdict.
type eventLogJudge struct {
	inner Judge
	repo  store.EventRepo
}

// WithEventLog wraps a Judge with store-backed call logging.
func WithEventLog(j Judge, repo store.EventRepo) Judge {
	if repo == nil {
		return j
	}
	return &eventLogJudge{inner: j, repo: repo}
}

func (e *eventLogJudge) Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error) {
	start := time.Now()
	v, err := e.inner.Evaluate(ctx, clip, expectedText)

	data := store.JudgeEventData{
		Model:     e.inner.ModelID(),
		VerseID:   clip.VerseID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	_ = e.repo.AppendJudgeEvent(context.WithoutCancel(ctx), data)

	return v, err
}

func (e *eventLogJudge) ModelID() string { return e.inner.ModelID() }
