// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records pipeline runs and their per-file outcomes in a
// SQLite database so earlier runs can be listed and inspected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docmerge/pkg/types"
)

const defaultLimit = 20

// timeLayout is fixed-width so that timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
			started_at TEXT NOT NULL,
			finished_at TEXT,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			merged_path TEXT,
			page_count INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			ext TEXT,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			pdf_path TEXT,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run summary and its file results in one transaction.
// Recording the same run ID again replaces the earlier record.
func (s *Store) Record(ctx context.Context, run types.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting previous record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, input_dir, output_dir, merged_path, page_count, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.InputDir, run.OutputDir, run.MergedPath, run.PageCount, run.Err,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (run_id, seq, path, name, ext, kind, status, pdf_path, duration_ns, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Files {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, f.Source.Path, f.Source.Name, f.Source.Ext, string(f.Source.Kind),
			string(f.Status), f.PDFPath, int64(f.Duration), f.Err,
		)
		if err != nil {
			return fmt.Errorf("inserting file %s: %w", f.Source.Name, err)
		}
	}

	return tx.Commit()
}

// Recent returns the newest runs first, with their file results. A
// non-positive limit uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.RunSummary, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, merged_path, page_count, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	var runs []types.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		files, err := s.files(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

// Get returns a single run with its file results.
func (s *Store) Get(ctx context.Context, id string) (types.RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, merged_path, page_count, error
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return types.RunSummary{}, err
	}
	run.Files, err = s.files(ctx, id)
	if err != nil {
		return types.RunSummary{}, err
	}
	return run, nil
}

func (s *Store) files(ctx context.Context, runID string) ([]types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, name, ext, kind, status, pdf_path, duration_ns, error
		 FROM run_files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files of run %s: %w", runID, err)
	}
	defer rows.Close()

	var files []types.FileResult
	for rows.Next() {
		var (
			f                    types.FileResult
			ext, pdfPath, errMsg sql.NullString
			kind, status         string
			durationNS           int64
		)
		if err := rows.Scan(&f.Source.Path, &f.Source.Name, &ext, &kind, &status, &pdfPath, &durationNS, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		f.Source.Ext = ext.String
		f.Source.Kind = types.Kind(kind)
		f.Status = types.FileStatus(status)
		f.PDFPath = pdfPath.String
		f.Duration = time.Duration(durationNS)
		f.Err = errMsg.String
		files = append(files, f)
	}
	return files, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (types.RunSummary, error) {
	var (
		run                      types.RunSummary
		started                  string
		finished, merged, errMsg sql.NullString
	)
	if err := r.Scan(&run.ID, &started, &finished, &run.InputDir, &run.OutputDir, &merged, &run.PageCount, &errMsg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning run row: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished.String)
	run.MergedPath = merged.String
	run.Err = errMsg.String
	return run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
