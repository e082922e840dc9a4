package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mohdridwan/etasmik/internal/learner"
)

// DirectoryEntry is one learner's record in the shared directory.
type DirectoryEntry struct {
	Profile  learner.Profile
	History  learner.History
	LastSync int64
}

// DirectoryRepo maps normalized IC numbers to directory entries. Each Put
// is an atomic per-key upsert; the last writer for a key wins and no merge
// is attempted across writers.
type DirectoryRepo interface {
	// Put upserts the entry keyed by its profile's IC number.
	Put(ctx context.Context, entry DirectoryEntry) error

	// Get returns the entry for the normalized IC number, or nil when the
	// directory has no such learner.
	Get(ctx context.Context, icNumber string) (*DirectoryEntry, error)

	// All returns every entry, ordered by full name.
	All(ctx context.Context) ([]DirectoryEntry, error)
}

type directoryRepo struct {
	db *sql.DB
}

func (r *directoryRepo) Put(ctx context.Context, entry DirectoryEntry) error {
	if entry.Profile.ICNumber == "" {
		return fmt.Errorf("directory entry requires an IC number")
	}

	history := entry.History
	if history == nil {
		history = learner.History{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO directory_entries (ic_number, full_name, class_name, history_json, last_sync)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(ic_number) DO UPDATE SET
             full_name = excluded.full_name,
             class_name = excluded.class_name,
             history_json = excluded.history_json,
             last_sync = excluded.last_sync`,
		entry.Profile.ICNumber, entry.Profile.FullName, entry.Profile.ClassName,
		string(historyJSON), entry.LastSync,
	)
	if err != nil {
		return fmt.Errorf("upsert directory entry %s: %w", entry.Profile.ICNumber, err)
	}
	return nil
}

func (r *directoryRepo) Get(ctx context.Context, icNumber string) (*DirectoryEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT ic_number, full_name, class_name, history_json, last_sync
         FROM directory_entries WHERE ic_number = ?`, icNumber,
	)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get directory entry %s: %w", icNumber, err)
	}
	return entry, nil
}

func (r *directoryRepo) All(ctx context.Context) ([]DirectoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ic_number, full_name, class_name, history_json, last_sync
         FROM directory_entries ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	defer rows.Close()

	var entries []DirectoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan directory entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory: %w", err)
	}
	return entries, nil
}

func scanEntry(scan func(...any) error) (*DirectoryEntry, error) {
	var entry DirectoryEntry
	var historyJSON string
	err := scan(&entry.Profile.ICNumber, &entry.Profile.FullName, &entry.Profile.ClassName,
		&historyJSON, &entry.LastSync)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(historyJSON), &entry.History); err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", entry.Profile.ICNumber, err)
	}
	return &entry, nil
}
