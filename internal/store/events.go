package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// JudgeEventData captures one judging service call for the append-only log.
type JudgeEventData struct {
	Model        string
	VerseID      int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to judge call events.
type EventRepo interface {
	AppendJudgeEvent(ctx context.Context, data JudgeEventData) error
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendJudgeEvent(ctx context.Context, data JudgeEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO judge_events (model, verse_id, latency_ms, success, error_message, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		data.Model, data.VerseID, data.LatencyMs, boolToInt(data.Success),
		data.ErrorMessage, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append judge event: %w", err)
	}
	return nil
}
