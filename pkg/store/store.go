// Package store is the SQLite-backed document store for tasks, alerts and
// templates. All task queries are owner-scoped except FetchTasks with an
// empty owner, which the cross-owner digest and delay runs use.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an upsert targets an ID owned by another owner.
var ErrConflict = errors.New("task id belongs to another owner")

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	priority TEXT NOT NULL DEFAULT '',
	due_at TEXT NOT NULL DEFAULT '',
	assigner TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);

CREATE TABLE IF NOT EXISTS alerts (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	message TEXT NOT NULL,
	task_id TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL DEFAULT '',
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_owner ON alerts(owner_id);

CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	checklist TEXT NOT NULL DEFAULT '[]',
	repeat_interval TEXT NOT NULL DEFAULT ''
);
`

type Store struct {
	db  *sql.DB
	now func() time.Time
	// loc interprets stored due dates that carry no zone.
	loc *time.Location
}

// Open opens (creating if needed) the database at path.
func Open(path string, loc *time.Location) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Store{db: db, now: time.Now, loc: loc}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func newID() string {
	return uuid.NewString()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
