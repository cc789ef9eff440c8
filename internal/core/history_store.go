package core

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// HistoryStoreInterface indexes persisted phase summaries across runs.
type HistoryStoreInterface interface {
	Record(ctx context.Context, entry types.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]types.HistoryEntry, error)
	ForRun(ctx context.Context, runID string) ([]types.HistoryEntry, error)
	Close() error
}

// Compile-time interface satisfaction check for HistoryStore.
var _ HistoryStoreInterface = (*HistoryStore)(nil)

// HistoryStore is a SQLite index of phase summaries. The summary JSON files
// stay the source of truth; the index only records where they are and
// their canonical digest.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore opens (creating if needed) the history database at path.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS phase_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			phase         TEXT NOT NULL,
			invocation_id TEXT NOT NULL,
			profile       TEXT NOT NULL,
			timestamp     TEXT NOT NULL,
			scanned       INTEGER NOT NULL DEFAULT 0,
			changed       INTEGER NOT NULL DEFAULT 0,
			skipped       INTEGER NOT NULL DEFAULT 0,
			errors        INTEGER NOT NULL DEFAULT 0,
			success       INTEGER NOT NULL DEFAULT 0,
			digest        TEXT NOT NULL,
			summary_path  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_phase_runs_run ON phase_runs(run_id);
		CREATE INDEX IF NOT EXISTS idx_phase_runs_timestamp ON phase_runs(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one entry.
func (s *HistoryStore) Record(ctx context.Context, e types.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phase_runs (run_id, phase, invocation_id, profile, timestamp,
			scanned, changed, skipped, errors, success, digest, summary_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, string(e.Phase), e.InvocationID, e.Profile, e.Timestamp,
		e.Scanned, e.Changed, e.Skipped, e.Errors, boolToInt(e.Success), e.Digest, e.SummaryPath,
	)
	if err != nil {
		return fmt.Errorf("history: record %s/%s: %w", e.RunID, e.Phase, err)
	}
	return nil
}

// Recent returns the newest entries first. limit <= 0 returns all entries.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	query := `SELECT run_id, phase, invocation_id, profile, timestamp, scanned, changed,
		skipped, errors, success, digest, summary_path
		FROM phase_runs ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ForRun returns the entries of one run in insertion order.
func (s *HistoryStore) ForRun(ctx context.Context, runID string) ([]types.HistoryEntry, error) {
	return s.query(ctx, `SELECT run_id, phase, invocation_id, profile, timestamp, scanned, changed,
		skipped, errors, success, digest, summary_path
		FROM phase_runs WHERE run_id = ? ORDER BY id`, runID)
}

func (s *HistoryStore) query(ctx context.Context, query string, args ...any) ([]types.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		var phase string
		var success int
		if err := rows.Scan(&e.RunID, &phase, &e.InvocationID, &e.Profile, &e.Timestamp,
			&e.Scanned, &e.Changed, &e.Skipped, &e.Errors, &success, &e.Digest, &e.SummaryPath); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Phase = types.Phase(phase)
		e.Success = success != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
