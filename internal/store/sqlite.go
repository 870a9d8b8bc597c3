// Package store is the case supplier: a SQLite table of normalized case
// records loaded by ingest and read once when a browser session starts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/sqlite"
)

// ErrNotFound is returned when a case does not exist.
var ErrNotFound = errors.New("case not found")

// DefaultStatuses are the case statuses shown to the public.
var DefaultStatuses = []string{"Open", "Reopened"}

// Store represents the SQLite storage implementation
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store instance
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate performs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			agency TEXT NOT NULL DEFAULT '',
			poc_name TEXT NOT NULL DEFAULT '',
			poc_title TEXT NOT NULL DEFAULT '',
			poc_email TEXT NOT NULL DEFAULT '',
			poc_phone TEXT NOT NULL DEFAULT '',
			states TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_title ON cases(title)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return s.setupIngestLog()
}

const upsertCase = `INSERT INTO cases (
		id, url, title, body, agency, poc_name, poc_title, poc_email, poc_phone,
		states, status, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		url = excluded.url,
		title = excluded.title,
		body = excluded.body,
		agency = excluded.agency,
		poc_name = excluded.poc_name,
		poc_title = excluded.poc_title,
		poc_email = excluded.poc_email,
		poc_phone = excluded.poc_phone,
		states = excluded.states,
		status = excluded.status,
		updated_at = excluded.updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func saveCase(ctx context.Context, db execer, c catalog.Case, now time.Time) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("failed to save case %q: missing id", c.Title)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("failed to save case %s: missing title", c.ID)
	}

	states := c.States
	if states == nil {
		states = []string{}
	}
	statesJSON, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("failed to marshal states of case %s: %w", c.ID, err)
	}

	_, err = db.ExecContext(ctx, upsertCase,
		c.ID, c.URL, c.Title, c.Body, c.Agency,
		c.POC.Name, c.POC.Title, c.POC.Email, c.POC.Phone,
		string(statesJSON), c.Status, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", c.ID, err)
	}
	return nil
}

// SaveCase creates a case or replaces the fields of an existing one.
func (s *Store) SaveCase(ctx context.Context, c catalog.Case) error {
	return saveCase(ctx, s.db, c, time.Now())
}

// SaveCases saves cases in a single transaction.
func (s *Store) SaveCases(ctx context.Context, cs []catalog.Case) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	now := time.Now()
	for _, c := range cs {
		if err := saveCase(ctx, tx, c, now); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const caseColumns = `id, url, title, body, agency, poc_name, poc_title, poc_email, poc_phone, states, status`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(row scanner) (catalog.Case, error) {
	var c catalog.Case
	var states string
	err := row.Scan(&c.ID, &c.URL, &c.Title, &c.Body, &c.Agency,
		&c.POC.Name, &c.POC.Title, &c.POC.Email, &c.POC.Phone,
		&states, &c.Status)
	if err != nil {
		return catalog.Case{}, err
	}
	if err := json.Unmarshal([]byte(states), &c.States); err != nil {
		return catalog.Case{}, fmt.Errorf("failed to decode states of case %s: %w", c.ID, err)
	}
	return c, nil
}

// GetCase returns one case by id.
func (s *Store) GetCase(ctx context.Context, id string) (catalog.Case, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Case{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return catalog.Case{}, fmt.Errorf("failed to get case %s: %w", id, err)
	}
	return c, nil
}

// ListCases returns cases whose status is one of statuses, ignoring case,
// ordered by title. No statuses selects every case.
func (s *Store) ListCases(ctx context.Context, statuses []string) ([]catalog.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var args []interface{}
	if len(statuses) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(statuses)), ",")
		query += ` WHERE lower(status) IN (` + placeholders + `)`
		for _, st := range statuses {
			args = append(args, strings.ToLower(strings.TrimSpace(st)))
		}
	}
	query += ` ORDER BY title, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []catalog.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cases: %w", err)
	}
	return cases, nil
}

// CountByStatus returns the number of cases per status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// DeleteCase removes a case.
func (s *Store) DeleteCase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete case %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Reset removes every case and the ingest log.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, table := range []string{"cases", "ingest_log"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
