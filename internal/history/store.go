// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package history keeps a local record of past publishes in a SQLite
// database under the XDG state dir. Recording is best-effort: a broken or
// missing history store never affects a publish result.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"rowbase/cli/internal/xdg"
)

// Entry is one recorded publish.
type Entry struct {
	ID          int64
	Owner       string
	Slug        string
	Dataset     string
	RevisionID  string
	Verdict     string
	CheckStatus string
	Version     int
	Message     string
	CreatedAt   time.Time
}

// Store is the SQLite-backed publish history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS publishes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	owner        TEXT NOT NULL,
	slug         TEXT NOT NULL,
	dataset      TEXT NOT NULL,
	revision_id  TEXT NOT NULL,
	verdict      TEXT NOT NULL,
	check_status TEXT NOT NULL,
	version      INTEGER NOT NULL,
	message      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_publishes_created_at ON publishes(created_at);
`

// DefaultPath returns the history database location in the XDG state dir.
func DefaultPath() (string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (and bootstraps, if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one publish entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO publishes (owner, slug, dataset, revision_id, verdict, check_status, version, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Owner, e.Slug, e.Dataset, e.RevisionID, e.Verdict, e.CheckStatus, e.Version, e.Message, created)
	if err != nil {
		return fmt.Errorf("recording publish: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, slug, dataset, revision_id, verdict, check_status, version, message, created_at
		FROM publishes
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing publishes: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Owner, &e.Slug, &e.Dataset, &e.RevisionID,
			&e.Verdict, &e.CheckStatus, &e.Version, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning publish row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
