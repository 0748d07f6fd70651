// Package journal records every device operation the controller issues in
// the device_operations table.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation kinds.
const (
	KindSet   = "set"
	KindGet   = "get"
	KindWrite = "write"
)

// Outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// timeLayout is fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Entry is one journalled device operation.
type Entry struct {
	ID        string
	Kind      string
	Port      string
	SlaveID   byte
	Relays    string // relay string written, or read back on success
	Outcome   string
	Error     string
	Duration  time.Duration
	StartedAt time.Time
}

// Repository stores and lists journal entries.
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// SQLiteRepository is a Repository backed by SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a journal on db. The schema must already be migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts e. ID, Outcome and StartedAt are filled in when empty.
func (r *SQLiteRepository) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = "op-" + uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
		if e.Error != "" {
			e.Outcome = OutcomeError
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO device_operations (id, kind, port, slave_id, relays, outcome, error, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Port, int(e.SlaveID), e.Relays, e.Outcome,
		nullableString(e.Error), e.Duration.Milliseconds(),
		e.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, port, slave_id, relays, outcome, error, duration_ms, started_at
		 FROM device_operations ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			slave     int
			errText   sql.NullString
			durMS     int64
			startedAt string
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Port, &slave, &e.Relays, &e.Outcome,
			&errText, &durMS, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.SlaveID = byte(slave)
		e.Error = errText.String
		e.Duration = time.Duration(durMS) * time.Millisecond
		e.StartedAt, _ = time.Parse(timeLayout, startedAt) //nolint:errcheck // format is ours
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return entries, nil
}

// nullableString maps "" to NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
