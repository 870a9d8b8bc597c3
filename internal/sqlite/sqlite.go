// Package sqlite opens database/sql handles on whichever SQLite driver the
// build carries: mattn/go-sqlite3 under cgo, modernc.org/sqlite otherwise.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Memory is the path that selects a private in-memory database.
const Memory = ":memory:"

// Driver returns the registered driver name used by Open.
func Driver() string { return driverName }

// Open opens the database at path. File databases get their parent directory
// created and WAL journaling. In-memory databases are pinned to a single
// connection, since every new connection would see an empty database.
func Open(path string) (*sql.DB, error) {
	if path == Memory {
		db, err := sql.Open(driverName, Memory)
		if err != nil {
			return nil, fmt.Errorf("failed to open in-memory database: %w", err)
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return db, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(driverName, fileDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
