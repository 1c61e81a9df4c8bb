// Package storage provides SQLite run-log persistence.
//
// Information Hiding:
// - SQLite connection management hidden behind the storage type
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/richinex/conjecture/loop"
)

// RunRecord is the persisted metadata of one completed run.
type RunRecord struct {
	ID           string
	Seed         string
	Iterations   int
	FinalContext string
}

// SqliteStorage stores completed runs and their iteration logs in a
// SQLite database file. Thread-safe: sql.DB handles connection pooling
// and concurrent access.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			iterations INTEGER NOT NULL,
			final_context TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS iterations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			iteration_index INTEGER NOT NULL,
			candidate TEXT NOT NULL,
			score INTEGER NOT NULL,
			critique TEXT NOT NULL,
			improved_version TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			generator_err TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
			UNIQUE(run_id, iteration_index)
		);

		CREATE INDEX IF NOT EXISTS idx_iterations_run
		ON iterations(run_id, iteration_index);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun persists a completed run and its iteration records.
// Saving the same run ID again replaces the previous log.
func (s *SqliteStorage) SaveRun(ctx context.Context, run RunRecord, records []loop.IterationRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// defer tx.Rollback() is safe even after Commit() - it becomes a no-op
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (run_id, seed, iterations, final_context)
		VALUES (?, ?, ?, ?)`,
		run.ID, run.Seed, run.Iterations, run.FinalContext)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM iterations WHERE run_id = ?", run.ID)
	if err != nil {
		return fmt.Errorf("failed to clear old iterations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO iterations
		(run_id, iteration_index, candidate, score, critique, improved_version, accepted, generator_err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var genErr interface{}
		if rec.GeneratorErr != "" {
			genErr = rec.GeneratorErr
		}
		_, err = stmt.ExecContext(ctx,
			run.ID,
			rec.Index,
			rec.Candidate,
			rec.Review.Score,
			rec.Review.Critique,
			rec.Review.ImprovedVersion,
			rec.Accepted,
			genErr,
		)
		if err != nil {
			return fmt.Errorf("failed to insert iteration: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadRun loads a run's metadata and iteration records.
// Returns sql.ErrNoRows wrapped in an error if the run doesn't exist.
func (s *SqliteStorage) LoadRun(ctx context.Context, runID string) (RunRecord, []loop.IterationRecord, error) {
	var run RunRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT run_id, seed, iterations, final_context FROM runs WHERE run_id = ?",
		runID).Scan(&run.ID, &run.Seed, &run.Iterations, &run.FinalContext)
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT iteration_index, candidate, score, critique, improved_version, accepted, generator_err
		FROM iterations
		WHERE run_id = ?
		ORDER BY iteration_index ASC`,
		runID)
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("failed to query iterations: %w", err)
	}
	defer rows.Close()

	records := []loop.IterationRecord{} // Start with empty slice, not nil
	for rows.Next() {
		var rec loop.IterationRecord
		var genErr sql.NullString
		err := rows.Scan(
			&rec.Index,
			&rec.Candidate,
			&rec.Review.Score,
			&rec.Review.Critique,
			&rec.Review.ImprovedVersion,
			&rec.Accepted,
			&genErr,
		)
		if err != nil {
			return RunRecord{}, nil, fmt.Errorf("failed to scan iteration: %w", err)
		}
		if genErr.Valid {
			rec.GeneratorErr = genErr.String
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return RunRecord{}, nil, fmt.Errorf("error iterating records: %w", err)
	}

	return run, records, nil
}

// ListRuns lists all stored run IDs, most recent first.
func (s *SqliteStorage) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []string{} // Start with empty slice, not nil
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, runID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun deletes a run and its iteration records.
func (s *SqliteStorage) DeleteRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM iterations WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run iterations: %w", err)
	}
	return nil
}
