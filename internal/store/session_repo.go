package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mohdridwan/etasmik/internal/learner"
)

// SessionRepo persists the active learner session: one profile and its
// attempt history. Last write wins; the session is read once at startup.
type SessionRepo interface {
	// Save replaces the stored session with the given profile and history.
	Save(ctx context.Context, profile learner.Profile, history learner.History) error

	// Load returns the stored session, or (nil, nil, nil) when none exists.
	Load(ctx context.Context) (*learner.Profile, learner.History, error)

	// Clear removes the stored session. Used at logout; the shared
	// directory entry is retained.
	Clear(ctx context.Context) error
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, profile learner.Profile, history learner.History) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO local_session (id, full_name, ic_number, class_name, updated_at)
         VALUES (1, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             full_name = excluded.full_name,
             ic_number = excluded.ic_number,
             class_name = excluded.class_name,
             updated_at = excluded.updated_at`,
		profile.FullName, profile.ICNumber, profile.ClassName,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	// The history is small and append-only in memory; replacing the rows
	// wholesale keeps the stored copy exactly in sync.
	if _, err := tx.ExecContext(ctx, "DELETE FROM local_attempts"); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	for _, a := range history {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO local_attempts (id, verse_id, verse_text, score, is_correct, timestamp)
             VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.VerseID, a.VerseText, a.Score, boolToInt(a.IsCorrect), a.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert attempt %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*learner.Profile, learner.History, error) {
	var p learner.Profile
	err := r.db.QueryRowContext(ctx,
		"SELECT full_name, ic_number, class_name FROM local_session WHERE id = 1",
	).Scan(&p.FullName, &p.ICNumber, &p.ClassName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, verse_id, verse_text, score, is_correct, timestamp
         FROM local_attempts ORDER BY timestamp DESC, id DESC`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	var history learner.History
	for rows.Next() {
		var a learner.Attempt
		var correct int
		if err := rows.Scan(&a.ID, &a.VerseID, &a.VerseText, &a.Score, &correct, &a.Timestamp); err != nil {
			return nil, nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.IsCorrect = correct != 0
		history = append(history, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return &p, history, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM local_session"); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM local_attempts"); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
