package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openclaw/qrgen/generator"
)

// Generation is one recorded target outcome.
type Generation struct {
	RunID      string `json:"run_id"`
	Target     string `json:"target"`
	URL        string `json:"url"`
	Path       string `json:"path"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	Bytes      int64  `json:"bytes"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// HistoryStore keeps generation outcomes in SQLite.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    target TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL DEFAULT '',
    foreground TEXT NOT NULL DEFAULT '',
    background TEXT NOT NULL DEFAULT '',
    bytes INTEGER NOT NULL DEFAULT 0,
    ok INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_target ON generations(target);
CREATE INDEX IF NOT EXISTS idx_generations_timestamp ON generations(timestamp);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath and
// initialises the schema.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{createGenerationsTable, createIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// RecordRun stores one row per target result of run.
func (s *HistoryStore) RecordRun(ctx context.Context, run *generator.Run) error {
	const query = `
		INSERT INTO generations
			(run_id, target, url, path, foreground, background, bytes, ok, error, timestamp)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback()

	ts := run.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	for _, res := range run.Results {
		if _, err := tx.ExecContext(ctx, query,
			run.ID,
			res.Target,
			res.URL,
			res.Path,
			run.Foreground,
			run.Background,
			res.Bytes,
			boolToInt(res.OK()),
			res.Error,
			ts.Unix(),
		); err != nil {
			return fmt.Errorf("record generation: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}
	return nil
}

// List returns recorded generations, newest first. An empty target returns
// every target.
func (s *HistoryStore) List(ctx context.Context, target string, limit int) ([]Generation, error) {
	const query = `
		SELECT run_id, target, url, path, foreground, background, bytes, ok, error, timestamp
		FROM generations
		WHERE ? = '' OR target = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, target, target, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		var ok int
		if err := rows.Scan(
			&g.RunID, &g.Target, &g.URL, &g.Path,
			&g.Foreground, &g.Background, &g.Bytes,
			&ok, &g.Error, &g.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		g.OK = ok != 0
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation rows: %w", err)
	}
	return gens, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
