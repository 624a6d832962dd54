// Package history keeps an append-only log of edit outcomes in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is what happened to an edit when it was processed
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeNoop       Outcome = "noop" // nothing left to change
	OutcomeConflicted Outcome = "conflicted"
	OutcomeUndone     Outcome = "undone" // inverse edit queued
)

// Entry is one line of the edit history
type Entry struct {
	ID         int64
	EditID     string
	ActionType string
	ElementKey string
	Outcome    Outcome
	Detail     string
	Duration   time.Duration
	CreatedAt  time.Time
}

// Log represents the SQLite history database
type Log struct {
	db *sql.DB
}

// Open opens the history database and brings its schema up to date
func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single writer keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	l := &Log{db: db}
	if err := l.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the database connection
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an entry to the history. CreatedAt defaults to now.
func (l *Log) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	result, err := l.db.ExecContext(ctx, `
		INSERT INTO edit_history (edit_id, action_type, element_key, outcome, detail, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.EditID, e.ActionType, e.ElementKey, string(e.Outcome), e.Detail,
		e.Duration.Milliseconds(), e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	e.ID, err = result.LastInsertId()
	return err
}

// List returns the most recent entries, newest first. A limit <= 0 returns all.
func (l *Log) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	return l.query(ctx, `
		SELECT id, edit_id, action_type, element_key, outcome, detail, duration_ms, created_at
		FROM edit_history ORDER BY id DESC LIMIT ?
	`, limit)
}

// ForElement returns all entries of an element, newest first
func (l *Log) ForElement(ctx context.Context, elementKey string) ([]*Entry, error) {
	return l.query(ctx, `
		SELECT id, edit_id, action_type, element_key, outcome, detail, duration_ms, created_at
		FROM edit_history WHERE element_key = ? ORDER BY id DESC
	`, elementKey)
}

func (l *Log) query(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var outcome, createdAt string
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.EditID, &e.ActionType, &e.ElementKey, &outcome,
			&e.Detail, &durationMs, &createdAt); err != nil {
			return nil, err
		}
		e.Outcome = Outcome(outcome)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// parseTimestamp parses a timestamp string from SQLite in the formats it may hold
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
