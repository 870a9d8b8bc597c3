package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestEntry records one ingested export file.
type IngestEntry struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Format    string    `json:"format"`
	Cases     int       `json:"cases"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) setupIngestLog() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS ingest_log (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			format TEXT NOT NULL,
			cases INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ingest_log_timestamp ON ingest_log(timestamp)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute ingest log migration: %w", err)
		}
	}
	return nil
}

// AddIngestEntry appends an entry to the ingest log.
func (s *Store) AddIngestEntry(ctx context.Context, entry IngestEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO ingest_log (
		id, source, format, cases, skipped, error, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Source, entry.Format, entry.Cases, entry.Skipped, entry.Error,
		entry.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to add ingest entry: %w", err)
	}
	return nil
}

// GetIngestEntries returns the newest entries first. limit <= 0 means 50.
func (s *Store) GetIngestEntries(ctx context.Context, limit int) ([]IngestEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, source, format, cases, skipped, error, timestamp
		FROM ingest_log ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest log: %w", err)
	}
	defer rows.Close()

	var entries []IngestEntry
	for rows.Next() {
		var e IngestEntry
		var ts int64
		if err := rows.Scan(&e.ID, &e.Source, &e.Format, &e.Cases, &e.Skipped, &e.Error, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan ingest entry: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
