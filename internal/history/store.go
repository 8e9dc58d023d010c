// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a ledger of past runs in a SQLite database inside
// the output directory, so `alltopdf history` can show what each run
// produced and how many entries failed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/alltopdf/internal/report"
)

const (
	stateDir = ".alltopdf"
	dbFile   = "history.db"
)

// Run is one recorded conversion run.
type Run struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	InputDir  string
	OutputDir string
	Visited   int
	Errors    int
	Folders   []report.FolderResult
}

// FromReport builds a Run from a finished report.
func FromReport(rep *report.Report, inputDir, outputDir string) Run {
	s := rep.Summary()
	return Run{
		Started:   rep.Started(),
		Finished:  time.Now(),
		InputDir:  inputDir,
		OutputDir: outputDir,
		Visited:   s.TotalVisited,
		Errors:    s.ErrorCount,
		Folders:   rep.Folders(),
	}
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Path returns the database location for an output directory.
func Path(outputDir string) string {
	return filepath.Join(outputDir, stateDir, dbFile)
}

// Open opens or creates the history database for outputDir.
func Open(outputDir string) (*Store, error) {
	dbPath := Path(outputDir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			input_dir TEXT,
			output_dir TEXT,
			visited INTEGER,
			errors INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS folders (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			output TEXT,
			pages INTEGER,
			error TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its folder results in one transaction. An empty
// run.ID is replaced by a new UUID, which is returned.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started, finished, input_dir, output_dir, visited, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UTC().Format(time.RFC3339Nano), run.Finished.UTC().Format(time.RFC3339Nano),
		run.InputDir, run.OutputDir, run.Visited, run.Errors,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO folders (run_id, position, name, output, pages, error) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Folders {
		if _, err := stmt.ExecContext(ctx, run.ID, i, f.Name, f.Output, f.Pages, f.Error); err != nil {
			return "", fmt.Errorf("inserting folder %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first, with their folders. A limit
// of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started, finished, input_dir, output_dir, visited, errors
		FROM runs ORDER BY started DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir, &r.Visited, &r.Errors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		folders, err := s.folders(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Folders = folders
	}
	return runs, nil
}

func (s *Store) folders(ctx context.Context, runID string) ([]report.FolderResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, output, pages, error FROM folders WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying folders: %w", err)
	}
	defer rows.Close()

	var out []report.FolderResult
	for rows.Next() {
		var f report.FolderResult
		if err := rows.Scan(&f.Name, &f.Output, &f.Pages, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
