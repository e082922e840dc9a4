// Package capture records learner recitations. The default recorder shells
// out to an external capture command; the session layer treats recording as
// an opaque collaborator that yields an audio clip.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/mohdridwan/etasmik/internal/judge"
)

// PCMMimeType is the encoding descriptor sent to the judging service for
// the default recorder output: 16 kHz mono signed 16-bit PCM.
const PCMMimeType = "audio/pcm;rate=16000"

// DefaultCommand captures raw PCM from the default input device.
var DefaultCommand = []string{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}

// ErrNotRecording indicates Stop or Cancel was called without an active capture.
var ErrNotRecording = errors.New("no recording in progress")

// ErrNoAudio indicates the capture ended before any audio was produced,
// typically a stop immediately after start.
var ErrNoAudio = errors.New("capture produced no audio")

// ErrAlreadyRecording indicates Start was called while a capture is active.
var ErrAlreadyRecording = errors.New("recording already in progress")

// Recorder captures one utterance at a time.
type Recorder interface {
	// Start begins audio capture. Fails when the capture device or binary
	// is unavailable, or when a capture is already active.
	Start(ctx context.Context) error

	// Stop ends the capture and returns the recorded clip.
	Stop() (judge.Clip, error)

	// Cancel ends the capture and discards the buffer without producing
	// a clip.
	Cancel()
}

// ExecRecorder runs an external capture command and collects its stdout.
type ExecRecorder struct {
	command  []string
	mimeType string

	mu   sync.Mutex
	cmd  *exec.Cmd
	buf  *bytes.Buffer
	done chan error
}

// NewExecRecorder creates a recorder for the given command. An empty
// command falls back to DefaultCommand.
func NewExecRecorder(command []string, mimeType string) *ExecRecorder {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if mimeType == "" {
		mimeType = PCMMimeType
	}
	return &ExecRecorder{command: command, mimeType: mimeType}
}

func (r *ExecRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	buf := &bytes.Buffer{}
	cmd := exec.Command(r.command[0], r.command[1:]...)
	cmd.Stdout = buf

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start capture command %q: %w", r.command[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	// The capture command owns its own lifetime from here; ctx applies to
	// the start handshake only.
	_ = ctx

	r.cmd = cmd
	r.buf = buf
	r.done = done
	return nil
}

func (r *ExecRecorder) Stop() (judge.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return judge.Clip{}, ErrNotRecording
	}

	err := r.terminate()
	clip := judge.Clip{Data: r.buf.Bytes(), MIMEType: r.mimeType}
	r.reset()

	// A stop right after start can interrupt the command before it emits
	// anything; the exit status from our own signal carries no information,
	// so report the empty buffer itself.
	if len(clip.Data) == 0 {
		if err != nil {
			return judge.Clip{}, fmt.Errorf("%w: %v", ErrNoAudio, err)
		}
		return judge.Clip{}, ErrNoAudio
	}
	return clip, nil
}

func (r *ExecRecorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return
	}
	_ = r.terminate()
	r.reset()
}

// terminate interrupts the capture command and waits briefly for it to
// flush and exit, escalating to a kill if it lingers.
func (r *ExecRecorder) terminate() error {
	_ = r.cmd.Process.Signal(os.Interrupt)
	select {
	case err := <-r.done:
		return err
	case <-time.After(2 * time.Second):
		_ = r.cmd.Process.Kill()
		return <-r.done
	}
}

func (r *ExecRecorder) reset() {
	r.cmd = nil
	r.buf = nil
	r.done = nil
}

// MockRecorder is a deterministic Recorder for tests.
type MockRecorder struct {
	// ClipData is returned from Stop.
	ClipData []byte

	// StartErr, when set, is returned from Start.
	StartErr error

	// StopErr, when set, is returned from Stop.
	StopErr error

	mu        sync.Mutex
	recording bool
	Started   int
	Stopped   int
	Canceled  int
}

func (m *MockRecorder) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return m.StartErr
	}
	if m.recording {
		return ErrAlreadyRecording
	}
	m.recording = true
	m.Started++
	return nil
}

func (m *MockRecorder) Stop() (judge.Clip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.recording {
		return judge.Clip{}, ErrNotRecording
	}
	m.recording = false
	m.Stopped++
	if m.StopErr != nil {
		return judge.Clip{}, m.StopErr
	}
	return judge.Clip{Data: m.ClipData, MIMEType: PCMMimeType}, nil
}

func (m *MockRecorder) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recording {
		m.recording = false
		m.Canceled++
	}
}
