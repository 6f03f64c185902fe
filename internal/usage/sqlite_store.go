package usage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists the ledger in a SQLite database. Totals live in a
// singleton row; request records are append-only. Not safe for concurrent
// use: savedRequests is unguarded, so callers must serialize Load/Save
// (Tracker does this under its mutex).
type SQLiteStore struct {
	db *sql.DB

	// savedRequests counts records already flushed so Save only appends
	// the tail of the in-memory log.
	savedRequests int
}

// NewSQLiteStore opens (and migrates) a ledger database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS usage_totals (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_tokens INTEGER NOT NULL DEFAULT 0,
			total_requests INTEGER NOT NULL DEFAULT 0,
			total_cost_usd REAL NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usage_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			tokens INTEGER NOT NULL,
			cost_usd REAL NOT NULL,
			model TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_requests_timestamp ON usage_requests(timestamp)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to migrate ledger schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reconstructs the ledger from the database, or returns nil when no
// totals row exists yet.
func (s *SQLiteStore) Load() (*Ledger, error) {
	ledger := &Ledger{}

	row := s.db.QueryRow(`SELECT total_tokens, total_requests, total_cost_usd, started_at FROM usage_totals WHERE id = 1`)
	err := row.Scan(&ledger.TotalTokens, &ledger.TotalRequests, &ledger.TotalCostUSD, &ledger.StartedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger totals: %w", err)
	}

	rows, err := s.db.Query(`SELECT timestamp, tokens, cost_usd, model, endpoint, metadata FROM usage_requests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var rec RequestRecord
		var metadata sql.NullString
		if err := rows.Scan(&rec.Timestamp, &rec.Tokens, &rec.CostUSD, &rec.Model, &rec.Endpoint, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan ledger request: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			_ = json.Unmarshal([]byte(metadata.String), &rec.Metadata)
		}
		ledger.Requests = append(ledger.Requests, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger requests: %w", err)
	}

	s.savedRequests = len(ledger.Requests)
	return ledger, nil
}

// Save upserts the totals row and appends any new request records, in one
// transaction.
func (s *SQLiteStore) Save(ledger *Ledger) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	startedAt := ledger.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err = tx.Exec(`INSERT INTO usage_totals (id, total_tokens, total_requests, total_cost_usd, started_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_tokens = excluded.total_tokens,
			total_requests = excluded.total_requests,
			total_cost_usd = excluded.total_cost_usd`,
		ledger.TotalTokens, ledger.TotalRequests, ledger.TotalCostUSD, startedAt)
	if err != nil {
		return fmt.Errorf("failed to save ledger totals: %w", err)
	}

	if s.savedRequests > len(ledger.Requests) {
		// Ledger was reset: clear the log and rewrite it.
		if _, err = tx.Exec(`DELETE FROM usage_requests`); err != nil {
			return fmt.Errorf("failed to clear ledger requests: %w", err)
		}
		s.savedRequests = 0
	}

	for _, rec := range ledger.Requests[s.savedRequests:] {
		var metadata []byte
		if rec.Metadata != nil {
			metadata, _ = json.Marshal(rec.Metadata)
		}
		_, err = tx.Exec(`INSERT INTO usage_requests (timestamp, tokens, cost_usd, model, endpoint, metadata)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.Timestamp, rec.Tokens, rec.CostUSD, rec.Model, rec.Endpoint, string(metadata))
		if err != nil {
			return fmt.Errorf("failed to append ledger request: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
	s.savedRequests = len(ledger.Requests)
	return nil
}
