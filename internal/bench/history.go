package bench

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// History persists benchmark runs in a local SQLite file so past
// comparisons survive restarts.
type History struct {
	db *sql.DB
}

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	ID                   int64   `json:"id"`
	Query                string  `json:"query"`
	TotalParallelSeconds float64 `json:"total_parallel_seconds"`
	DocumentStoreSeconds float64 `json:"document_store_seconds"`
	DocumentStoreRows    int     `json:"document_store_rows"`
	RelationalSeconds    float64 `json:"relational_seconds"`
	RelationalRows       int     `json:"relational_rows"`
	CreatedAt            string  `json:"created_at"`
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initHistorySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			total_seconds REAL NOT NULL,
			doc_seconds REAL NOT NULL,
			doc_rows INTEGER NOT NULL,
			rel_seconds REAL NOT NULL,
			rel_rows INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to init history schema: %w", err)
	}
	return nil
}

// Record stores one run.
func (h *History) Record(ctx context.Context, query string, res *Result) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO runs (query, total_seconds, doc_seconds, doc_rows, rel_seconds, rel_rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		query,
		res.TotalParallelSeconds,
		res.DocumentStoreSeconds,
		res.DocumentStoreRows,
		res.RelationalSeconds,
		res.RelationalRows,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, query, total_seconds, doc_seconds, doc_rows, rel_seconds, rel_rows, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.TotalParallelSeconds,
			&e.DocumentStoreSeconds,
			&e.DocumentStoreRows,
			&e.RelationalSeconds,
			&e.RelationalRows,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close releases the database.
func (h *History) Close() error {
	return h.db.Close()
}
