// Package history records one row per backup job invocation in a SQLite
// database, for the `snapback history` command. Failures here are
// observability losses, not backup failures; callers log and continue.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"snapback/internal/history/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Run is one recorded job invocation.
type Run struct {
	ID         int64
	RunID      string
	Operation  string // "run" or "resume"
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
	Processed  int64
	Skipped    int64
	Failed     int64
}

// DB wraps the run-history database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database at path and migrates it to
// the latest schema. path can be ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

// Start inserts a row for a run that has just begun and returns its
// database ID.
func (d *DB) Start(runID, operation string, startedAt time.Time) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO runs (run_id, operation, started_at, status) VALUES (?, ?, ?, 'running')`,
		runID, operation, startedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording run start: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// Finish completes a run row with its final status and outcome counts.
func (d *DB) Finish(id int64, status string, finishedAt time.Time, processed, skipped, failed int) error {
	_, err := d.db.Exec(
		`UPDATE runs SET status = ?, finished_at = ?, processed = ?, skipped = ?, failed = ? WHERE id = ?`,
		status, finishedAt.UTC(), processed, skipped, failed, id,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (d *DB) Recent(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, run_id, operation, started_at, finished_at, status, processed, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Operation, &r.StartedAt, &r.FinishedAt,
			&r.Status, &r.Processed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}
