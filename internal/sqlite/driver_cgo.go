//go:build cgo
// +build cgo

package sqlite

import (
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

func fileDSN(path string) string {
	return path + "?_journal_mode=WAL&_foreign_keys=off"
}
