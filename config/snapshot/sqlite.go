// Package snapshot persists an offline copy of the {projects, tasks, logs}
// aggregate. It is written whenever the primary save call fails and read
// back when the initial load fails, so the dashboard starts from the last
// known state instead of empty.
package snapshot

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/config"
)

// FileName is the fixed storage name under the config directory.
const FileName = "snapshot.db"

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY,
	name        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	status      TEXT    NOT NULL DEFAULT 'pending-review',
	created     TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tasks (
	id       INTEGER PRIMARY KEY,
	title    TEXT    NOT NULL,
	project  TEXT    NOT NULL DEFAULT '',
	priority TEXT    NOT NULL DEFAULT 'medium',
	done     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS logs (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	time    TEXT NOT NULL,
	type    TEXT NOT NULL,
	message TEXT NOT NULL
);
`

// Store is the sqlite-backed offline snapshot.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the snapshot's fixed location under the config dir.
func DefaultPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Open opens (or creates) the snapshot database at dbPath and runs schema
// migrations. Use ":memory:" for an in-memory database (useful in tests).
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	if dbPath == ":memory:" {
		// Each pooled connection gets its own in-memory database; pin the
		// pool to one so the schema survives.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run schema migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write replaces the stored snapshot wholesale. The three collections are
// written in one transaction so a crash can't leave a half-updated snapshot.
func (s *Store) Write(snap api.DataSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot write: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"projects", "tasks", "logs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Projects {
		_, err := tx.Exec(
			`INSERT INTO projects (id, name, description, status, created) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, string(p.Status), p.Created,
		)
		if err != nil {
			return fmt.Errorf("write project: %w", err)
		}
	}

	for _, t := range snap.Tasks {
		done := 0
		if t.Done {
			done = 1
		}
		_, err := tx.Exec(
			`INSERT INTO tasks (id, title, project, priority, done) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Project, string(t.Priority), done,
		)
		if err != nil {
			return fmt.Errorf("write task: %w", err)
		}
	}

	for _, l := range snap.Logs {
		_, err := tx.Exec(
			`INSERT INTO logs (time, type, message) VALUES (?, ?, ?)`,
			l.Time.UTC().Format(time.RFC3339Nano), string(l.Type), l.Message,
		)
		if err != nil {
			return fmt.Errorf("write log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot back. An empty database yields an empty
// (non-nil-field) snapshot, not an error.
func (s *Store) Load() (api.DataSnapshot, error) {
	snap := api.DataSnapshot{
		Projects: []api.Project{},
		Tasks:    []api.Task{},
		Logs:     []api.LogEntry{},
	}

	rows, err := s.db.Query(`SELECT id, name, description, status, created FROM projects ORDER BY id DESC`)
	if err != nil {
		return snap, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p api.Project
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &status, &p.Created); err != nil {
			return snap, fmt.Errorf("scan project: %w", err)
		}
		p.Status = api.ProjectStatus(status)
		snap.Projects = append(snap.Projects, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate projects: %w", err)
	}

	taskRows, err := s.db.Query(`SELECT id, title, project, priority, done FROM tasks ORDER BY id DESC`)
	if err != nil {
		return snap, fmt.Errorf("load tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var t api.Task
		var priority string
		var done int
		if err := taskRows.Scan(&t.ID, &t.Title, &t.Project, &priority, &done); err != nil {
			return snap, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = api.Priority(priority)
		t.Done = done != 0
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate tasks: %w", err)
	}

	logRows, err := s.db.Query(`SELECT time, type, message FROM logs ORDER BY seq ASC`)
	if err != nil {
		return snap, fmt.Errorf("load logs: %w", err)
	}
	defer logRows.Close()
	for logRows.Next() {
		var l api.LogEntry
		var ts, typ string
		if err := logRows.Scan(&ts, &typ, &l.Message); err != nil {
			return snap, fmt.Errorf("scan log: %w", err)
		}
		l.Time = parseTime(ts)
		l.Type = api.LogType(typ)
		snap.Logs = append(snap.Logs, l)
	}
	if err := logRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate logs: %w", err)
	}

	return snap, nil
}

// Reset clears the stored snapshot.
func (s *Store) Reset() error {
	return s.Write(api.DataSnapshot{})
}

// parseTime parses an RFC3339 string. Returns zero time on empty or invalid input.
func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
