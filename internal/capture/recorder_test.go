package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("stand-in command never signalled readiness at %s", path)
}

func TestMockRecorderLifecycle(t *testing.T) {
	m := &MockRecorder{ClipData: []byte{1, 2, 3}}
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(ctx); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("double Start = %v, want ErrAlreadyRecording", err)
	}

	clip, err := m.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(clip.Data) != 3 {
		t.Errorf("clip len = %d, want 3", len(clip.Data))
	}
	if clip.MIMEType != PCMMimeType {
		t.Errorf("MIMEType = %q", clip.MIMEType)
	}

	if _, err := m.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop when idle = %v, want ErrNotRecording", err)
	}
}

func TestMockRecorderCancelDiscards(t *testing.T) {
	m := &MockRecorder{ClipData: []byte{1}}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.Cancel()
	if m.Canceled != 1 {
		t.Errorf("Canceled = %d, want 1", m.Canceled)
	}
	if _, err := m.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop after Cancel = %v, want ErrNotRecording", err)
	}
}

func TestExecRecorderMissingBinary(t *testing.T) {
	r := NewExecRecorder([]string{"definitely-not-a-real-capture-binary"}, "")
	if err := r.Start(context.Background()); err == nil {
		t.Error("expected start error for missing binary")
		r.Cancel()
	}
}

func TestExecRecorderCapturesStdout(t *testing.T) {
	// Use a shell as a stand-in capture command. Like a real capture tool
	// it flushes its output on the interrupt the recorder sends; the ready
	// file tells the test the trap is installed before it stops.
	ready := filepath.Join(t.TempDir(), "ready")
	script := fmt.Sprintf(
		`trap 'printf audio-bytes; exit 0' INT; : > %s; while :; do sleep 0.05; done`, ready)
	r := NewExecRecorder([]string{"sh", "-c", script}, "audio/test")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForFile(t, ready)

	clip, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if string(clip.Data) != "audio-bytes" {
		t.Errorf("clip data = %q", clip.Data)
	}
	if clip.MIMEType != "audio/test" {
		t.Errorf("MIMEType = %q", clip.MIMEType)
	}
}

func TestExecRecorderInstantStopReportsNoAudio(t *testing.T) {
	// A command that never writes: an immediate stop must surface as
	// ErrNoAudio, not as the raw interrupt exit status.
	r := NewExecRecorder([]string{"sh", "-c", "sleep 10"}, "audio/test")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := r.Stop()
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("Stop = %v, want ErrNoAudio", err)
	}
}
