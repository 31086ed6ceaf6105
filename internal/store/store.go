// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline run records in SQLite, keyed by run ID.
// Records carry an expiry; expired records read back as missing and are
// removed opportunistically.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// ErrNotFound reports that no live record exists for the run ID.
var ErrNotFound = errors.New("record not found")

// Store manages the run-record SQLite database.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	// now is a test hook for expiry.
	now func() time.Time
}

// NewStore opens or creates the database at cfg.Path and ensures the schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_expires_at ON results(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put upserts the record under its run ID and refreshes the expiry. Every
// pipeline transition writes the full record, so a crash leaves the last
// completed transition visible.
func (s *Store) Put(ctx context.Context, record *types.PipelineRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serializing record %s: %w", record.ID, err)
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, payload, updated_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			payload=excluded.payload, updated_at=excluded.updated_at, expires_at=excluded.expires_at`,
		record.ID, string(payload),
		now.Format(time.RFC3339Nano),
		now.Add(s.ttl).Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing record %s: %w", record.ID, err)
	}
	return nil
}

// Get returns the live record for the run ID. A missing or expired record is
// ErrNotFound; expired rows are deleted on the way out.
func (s *Store) Get(ctx context.Context, id string) (*types.PipelineRecord, error) {
	var payload, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM results WHERE id = ?`, id,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", id, err)
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parsing expiry for record %s: %w", id, err)
	}
	if !s.now().UTC().Before(expiry) {
		s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
		return nil, ErrNotFound
	}

	var record types.PipelineRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", id, err)
	}
	return &record, nil
}

// Purge deletes all expired records and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM results WHERE expires_at <= ?`,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("purging expired records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
