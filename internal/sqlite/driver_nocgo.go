//go:build !cgo
// +build !cgo

package sqlite

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func fileDSN(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(0)"
}
