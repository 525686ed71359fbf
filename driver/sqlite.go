package driver

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/mattn/go-sqlite3"

	"github.com/dbal-go/dbal/dialect"
)

// SQLiteDriver drives SQLite through mattn/go-sqlite3.
type SQLiteDriver struct {
	sqlDriver
}

// NewSQLite returns an unconnected SQLite driver for the given database
// file path (or ":memory:"). Foreign keys are enabled on connect; SQLite
// ships with them off.
func NewSQLite(path string) *SQLiteDriver {
	return &SQLiteDriver{sqlDriver{
		name:        "sqlite",
		driverName:  "sqlite3",
		dsn:         path,
		dia:         &dialect.SQLite{},
		hasInsertID: true,
		classify:    sqliteErrorCode,
		setup: func(ctx context.Context, db *sql.DB) error {
			_, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
			return err
		},
	}}
}

// sqliteErrorCode extracts the result code from a driver error.
func sqliteErrorCode(err error) string {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return strconv.Itoa(int(sqErr.Code))
	}
	return ""
}
