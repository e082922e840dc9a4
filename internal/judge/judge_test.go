package judge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mohdridwan/etasmik/internal/store"
)

func TestParseVerdict(t *testing.T) {
	raw := json.RawMessage(`{"score":90,"transcription":"أبدأ بالحمد","errors":[],"feedback":"Mumtaz"}`)
	v, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if v.Score != 90 {
		t.Errorf("Score = %d, want 90", v.Score)
	}
	if len(v.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", v.Errors)
	}
}

func TestParseVerdictClampsScore(t *testing.T) {
	raw := json.RawMessage(`{"score":150,"transcription":"بسم الله الرحمن","errors":[],"feedback":"x"}`)
	v, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if v.Score != 100 {
		t.Errorf("Score = %d, want clamped to 100", v.Score)
	}

	raw = json.RawMessage(`{"score":-5,"transcription":"بسم الله الرحمن","errors":[],"feedback":"x"}`)
	v, err = parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if v.Score != 0 {
		t.Errorf("Score = %d, want clamped to 0", v.Score)
	}
}

func TestParseVerdictRejectsBadContent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `garbage`},
		{"missing score", `{"transcription":"x","errors":[],"feedback":"y"}`},
		{"wrong score type", `{"score":"high","transcription":"x","errors":[],"feedback":"y"}`},
		{"wrong errors type", `{"score":1,"transcription":"x","errors":"oops","feedback":"y"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseVerdict(json.RawMessage(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var inv *ErrInvalidVerdict
			if !errors.As(err, &inv) {
				t.Errorf("err = %T, want *ErrInvalidVerdict", err)
			}
		})
	}
}

func TestTrustBoundaryForcesZero(t *testing.T) {
	// Transcription "ok" is 2 runes: the returned score must not be trusted.
	mock := NewMockJudge(MockResult{Verdict: &Verdict{
		Score:         77,
		Transcription: "ok",
		Errors:        []string{},
		Feedback:      "Bagus",
	}})
	j := WithTrustBoundary(mock)

	v, err := j.Evaluate(context.Background(), Clip{Data: []byte{1}}, "text")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Score != 0 {
		t.Errorf("Score = %d, want forced 0", v.Score)
	}
	if len(v.Errors) != 1 || v.Errors[0] != NoReadingDetected {
		t.Errorf("Errors = %v, want [%q]", v.Errors, NoReadingDetected)
	}
}

func TestTrustBoundaryKeepsRealTranscription(t *testing.T) {
	mock := NewMockJudge(MockResult{Verdict: &Verdict{
		Score:         88,
		Transcription: "أبدأ بالحمد مصليا",
		Errors:        []string{},
		Feedback:      "Mumtaz",
	}})
	j := WithTrustBoundary(mock)

	v, err := j.Evaluate(context.Background(), Clip{Data: []byte{1}}, "text")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Score != 88 {
		t.Errorf("Score = %d, want 88", v.Score)
	}
}

func TestTrustBoundaryPassesThroughErrors(t *testing.T) {
	mock := NewMockJudge(MockResult{Err: &ErrUnavailable{}})
	j := WithTrustBoundary(mock)

	_, err := j.Evaluate(context.Background(), Clip{}, "text")
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("err = %v, want *ErrUnavailable", err)
	}
}

type hangingJudge struct{}

func (hangingJudge) Evaluate(ctx context.Context, _ Clip, _ string) (*Verdict, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hangingJudge) ModelID() string { return "hang" }

func TestWithTimeout(t *testing.T) {
	j := WithTimeout(hangingJudge{}, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := j.Evaluate(context.Background(), Clip{}, "text")
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout middleware did not cancel the call")
	}
}

type captureEventRepo struct {
	events []store.JudgeEventData
}

func (r *captureEventRepo) AppendJudgeEvent(_ context.Context, data store.JudgeEventData) error {
	r.events = append(r.events, data)
	return nil
}

func TestWithEventLogRecordsVerse(t *testing.T) {
	mock := NewMockJudge(MockResult{Verdict: &Verdict{
		Score:         90,
		Transcription: "أبدأ بالحمد مصليا",
		Errors:        []string{},
	}})
	repo := &captureEventRepo{}
	j := WithEventLog(mock, repo)

	_, err := j.Evaluate(context.Background(), Clip{Data: []byte{1}, VerseID: 7}, "text")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	ev := repo.events[0]
	if ev.VerseID != 7 {
		t.Errorf("VerseID = %d, want 7", ev.VerseID)
	}
	if ev.Model != "mock" {
		t.Errorf("Model = %q, want mock", ev.Model)
	}
	if !ev.Success {
		t.Error("Success = false for a clean evaluation")
	}
}

func TestMockJudgeRecordsCalls(t *testing.T) {
	mock := NewMockJudge(MockResult{Verdict: &Verdict{Score: 90, Transcription: "بسم الله الرحمن", Errors: []string{}}})
	_, err := mock.Evaluate(context.Background(), Clip{MIMEType: "audio/pcm;rate=16000"}, "expected")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("Calls = %d, want 1", len(mock.Calls))
	}
	if mock.Calls[0].ExpectedText != "expected" {
		t.Errorf("ExpectedText = %q", mock.Calls[0].ExpectedText)
	}

	// Queue exhausted.
	_, err = mock.Evaluate(context.Background(), Clip{}, "x")
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("exhausted mock err = %v, want *ErrUnavailable", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Provider: "gemini"}
	if err := cfg.Validate(); err == nil {
		t.Error("gemini without key should fail")
	}

	cfg = Config{Provider: "mock"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider: %v", err)
	}

	cfg = Config{Provider: "nope"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail")
	}
}
