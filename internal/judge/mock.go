package judge

import (
	"context"
	"sync"
)

// MockResult is a canned outcome for the MockJudge.
type MockResult struct {
	Verdict *Verdict
	Err     error
}

// MockCall records one Evaluate invocation.
type MockCall struct {
	Clip         Clip
	ExpectedText string
}

// MockJudge is a deterministic Judge for tests. It returns canned results
// in FIFO order and records all calls.
type MockJudge struct {
	mu      sync.Mutex
	results []MockResult
	Calls   []MockCall
}

// NewMockJudge creates a MockJudge with the given canned results.
func NewMockJudge(results ...MockResult) *MockJudge {
	return &MockJudge{results: results}
}

// Evaluate returns the next canned result or ErrUnavailable when the queue
// is empty.
func (m *MockJudge) Evaluate(_ context.Context, clip Clip, expectedText string) (*Verdict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Clip: clip, ExpectedText: expectedText})

	if len(m.results) == 0 {
		return nil, &ErrUnavailable{}
	}

	r := m.results[0]
	m.results = m.results[1:]

	if r.Err != nil {
		return nil, r.Err
	}
	// Copy so callers cannot mutate the canned verdict.
	v := *r.Verdict
	return &v, nil
}

// ModelID returns "mock".
func (m *MockJudge) ModelID() string {
	return "mock"
}

// AddResult appends a canned result to the queue.
func (m *MockJudge) AddResult(r MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
}
