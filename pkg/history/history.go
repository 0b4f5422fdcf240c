// Package history keeps a local SQLite log of inspect and clear runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pario-ai/semcache/pkg/models"
)

// Log records runs in a SQLite database.
type Log struct {
	db *sql.DB
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	pattern TEXT NOT NULL,
	keys INTEGER NOT NULL,
	deleted INTEGER NOT NULL DEFAULT 0,
	remaining INTEGER NOT NULL DEFAULT 0,
	dry_run INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// New opens the run log at dbPath and creates the schema.
func New(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Log{db: db}, nil
}

// Record stores a run. An empty ID is filled with a new UUID, which is returned.
func (l *Log) Record(ctx context.Context, run models.Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, pattern, keys, deleted, remaining, dry_run, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Command), run.Pattern, run.Keys, run.Deleted, run.Remaining,
		run.DryRun, run.Error, run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// List returns the most recent runs first. A limit of 0 returns all runs.
func (l *Log) List(ctx context.Context, limit int) ([]models.Run, error) {
	query := `SELECT id, command, pattern, keys, deleted, remaining, dry_run, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var r models.Run
		var command string
		if err := rows.Scan(&r.ID, &command, &r.Pattern, &r.Keys, &r.Deleted, &r.Remaining,
			&r.DryRun, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Command = models.RunCommand(command)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes runs that started before cutoff and returns how many were removed.
func (l *Log) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
