package driver

import (
	"errors"

	"github.com/lib/pq"

	"github.com/dbal-go/dbal/dialect"
)

// PostgresDriver drives PostgreSQL through lib/pq.
type PostgresDriver struct {
	sqlDriver
}

// NewPostgres returns an unconnected PostgreSQL driver. lib/pq cannot
// report generated identities through the execute path, so LastInsertID is
// a capability error; use RETURNING instead.
func NewPostgres(dsn string) *PostgresDriver {
	return &PostgresDriver{sqlDriver{
		name:        "postgres",
		driverName:  "postgres",
		dsn:         dsn,
		dia:         &dialect.Postgres{},
		hasInsertID: false,
		classify:    postgresErrorCode,
	}}
}

// postgresErrorCode extracts the SQLSTATE code from a lib/pq error.
func postgresErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
