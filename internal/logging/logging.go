// Package logging configures the application logger. The TUI owns stdout,
// so logs go to a JSON file under the data directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Open creates a JSON slog.Logger writing to the file at path. The parent
// directory is created if needed. The returned closer flushes the file.
func Open(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	logger := slog.New(slog.NewJSONHandler(f, nil))
	return logger, f, nil
}

// Discard returns a logger that drops everything. Used in tests and when
// no log path can be resolved.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
