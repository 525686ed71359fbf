// Package driver defines the engine capability contract: connection
// lifecycle, statement execution, row-count and identity introspection,
// transaction control with named savepoints, dialect rendering, and
// LIMIT/OFFSET injection. One variant exists per wired engine, each backed
// by database/sql over the engine's native client library.
package driver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/cursor"
	"github.com/dbal-go/dbal/dialect"
)

// Driver is the capability surface one connection drives an engine
// through. A driver owns exactly one underlying engine session and is not
// safe for concurrent use; its owning connection serializes access.
type Driver interface {
	// Connect establishes the engine session.
	Connect(ctx context.Context) error

	// Disconnect closes the engine session.
	Disconnect(ctx context.Context) error

	// IsConnected reports whether a session is live.
	IsConnected() bool

	// Ping checks the session.
	Ping(ctx context.Context) error

	// Query executes row-returning SQL and wraps the native result in the
	// driver's fetch-mode cursor variant.
	Query(ctx context.Context, sqlText string) (cursor.Cursor, error)

	// Execute runs a statement and returns the affected row count.
	Execute(ctx context.Context, sqlText string) (int64, error)

	// AffectedRows returns the row count of the last Execute.
	AffectedRows() int64

	// LastInsertID returns the identity generated by the last Execute.
	LastInsertID() (int64, error)

	// Begin opens a transaction. Statements run inside it until Commit or
	// Rollback.
	Begin(ctx context.Context) error

	// Commit commits the open transaction.
	Commit() error

	// Rollback rolls back the open transaction.
	Rollback() error

	// Savepoint creates a named savepoint inside the open transaction.
	Savepoint(ctx context.Context, name string) error

	// RollbackTo rolls back to a named savepoint.
	RollbackTo(ctx context.Context, name string) error

	// ReleaseSavepoint releases a named savepoint.
	ReleaseSavepoint(ctx context.Context, name string) error

	// Dialect returns the rendering policy for this engine.
	Dialect() dialect.Dialect

	// ApplyLimit rewrites sqlText with the engine's row-limiting syntax.
	ApplyLimit(sqlText string, limit, offset int) (string, error)

	// FetchMode returns the cursor variant Query produces.
	FetchMode() cursor.Mode

	// SetFetchMode selects the cursor variant Query produces.
	SetFetchMode(mode cursor.Mode)
}

// Open returns an unconnected driver for the given provider.
func Open(provider, dsn string) (Driver, error) {
	switch provider {
	case "postgresql", "postgres":
		return NewPostgres(dsn), nil
	case "mysql":
		return NewMySQL(dsn), nil
	case "sqlite", "sqlite3":
		return NewSQLite(dsn), nil
	default:
		return nil, fmt.Errorf("driver: unknown provider %q", provider)
	}
}

// sqlDriver is the shared database/sql-backed core. Engine variants differ
// in driver name, dialect, native error classification, and session setup.
type sqlDriver struct {
	name       string
	driverName string
	dsn        string
	dia        dialect.Dialect
	db         *sql.DB
	tx         *sql.Tx
	affected   int64
	lastResult sql.Result
	mode       cursor.Mode

	// hasInsertID is false for engines whose client library cannot report
	// generated identities through the execute path.
	hasInsertID bool

	// classify extracts the native error code, empty when unknown.
	classify func(error) string

	// setup runs engine session setup after connecting.
	setup func(ctx context.Context, db *sql.DB) error
}

// Connect opens the engine session. The pool is pinned to a single
// connection: a driver instance owns at most one session at a time.
func (d *sqlDriver) Connect(ctx context.Context) error {
	if d.db != nil {
		return nil
	}
	db, err := sql.Open(d.driverName, d.dsn)
	if err != nil {
		return d.wrap("", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return d.wrap("", err)
	}
	if d.setup != nil {
		if err := d.setup(ctx, db); err != nil {
			db.Close()
			return d.wrap("", err)
		}
	}
	d.db = db
	return nil
}

// Disconnect closes the engine session.
func (d *sqlDriver) Disconnect(context.Context) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	d.tx = nil
	return err
}

// IsConnected reports whether a session is live.
func (d *sqlDriver) IsConnected() bool { return d.db != nil }

// Ping checks the session.
func (d *sqlDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return &dbal.StateError{Op: "ping"}
	}
	return d.db.PingContext(ctx)
}

// Query executes row-returning SQL.
func (d *sqlDriver) Query(ctx context.Context, sqlText string) (cursor.Cursor, error) {
	if d.db == nil {
		return nil, &dbal.StateError{Op: "query"}
	}
	var rows *sql.Rows
	var err error
	if d.tx != nil {
		rows, err = d.tx.QueryContext(ctx, sqlText)
	} else {
		rows, err = d.db.QueryContext(ctx, sqlText)
	}
	if err != nil {
		return nil, d.wrap(sqlText, err)
	}
	cur, err := cursor.FromRows(rows, d.mode)
	if err != nil {
		return nil, d.wrap(sqlText, err)
	}
	return cur, nil
}

// Execute runs a statement and records its affected row count and result
// handle for AffectedRows and LastInsertID.
func (d *sqlDriver) Execute(ctx context.Context, sqlText string) (int64, error) {
	if d.db == nil {
		return 0, &dbal.StateError{Op: "execute"}
	}
	var res sql.Result
	var err error
	if d.tx != nil {
		res, err = d.tx.ExecContext(ctx, sqlText)
	} else {
		res, err = d.db.ExecContext(ctx, sqlText)
	}
	if err != nil {
		return 0, d.wrap(sqlText, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	d.affected = affected
	d.lastResult = res
	return affected, nil
}

// AffectedRows returns the row count of the last Execute.
func (d *sqlDriver) AffectedRows() int64 { return d.affected }

// LastInsertID returns the identity generated by the last Execute.
func (d *sqlDriver) LastInsertID() (int64, error) {
	if !d.hasInsertID {
		return 0, &dbal.CapabilityError{Dialect: d.name, Feature: "last insert id"}
	}
	if d.lastResult == nil {
		return 0, fmt.Errorf("%w: no statement executed", dbal.ErrInvalidArgument)
	}
	return d.lastResult.LastInsertId()
}

// Begin opens a transaction.
func (d *sqlDriver) Begin(ctx context.Context) error {
	if d.db == nil {
		return &dbal.StateError{Op: "begin"}
	}
	if d.tx != nil {
		return fmt.Errorf("%w: transaction already open", dbal.ErrInvalidArgument)
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return d.wrap("", err)
	}
	d.tx = tx
	return nil
}

// Commit commits the open transaction.
func (d *sqlDriver) Commit() error {
	if d.tx == nil {
		return dbal.ErrNoTransaction
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return d.wrap("", err)
	}
	return nil
}

// Rollback rolls back the open transaction.
func (d *sqlDriver) Rollback() error {
	if d.tx == nil {
		return dbal.ErrNoTransaction
	}
	err := d.tx.Rollback()
	d.tx = nil
	if err != nil {
		return d.wrap("", err)
	}
	return nil
}

// Savepoint creates a named savepoint inside the open transaction.
func (d *sqlDriver) Savepoint(ctx context.Context, name string) error {
	return d.savepointStmt(ctx, "SAVEPOINT", name)
}

// RollbackTo rolls back to a named savepoint.
func (d *sqlDriver) RollbackTo(ctx context.Context, name string) error {
	return d.savepointStmt(ctx, "ROLLBACK TO SAVEPOINT", name)
}

// ReleaseSavepoint releases a named savepoint.
func (d *sqlDriver) ReleaseSavepoint(ctx context.Context, name string) error {
	return d.savepointStmt(ctx, "RELEASE SAVEPOINT", name)
}

func (d *sqlDriver) savepointStmt(ctx context.Context, verb, name string) error {
	if d.db == nil {
		return &dbal.StateError{Op: "savepoint"}
	}
	if d.tx == nil {
		return dbal.ErrNoTransaction
	}
	stmt := verb + " " + d.dia.QuoteIdentifier(name)
	if _, err := d.tx.ExecContext(ctx, stmt); err != nil {
		return d.wrap(stmt, err)
	}
	return nil
}

// Dialect returns the rendering policy for this engine.
func (d *sqlDriver) Dialect() dialect.Dialect { return d.dia }

// ApplyLimit rewrites sqlText with the engine's row-limiting syntax.
func (d *sqlDriver) ApplyLimit(sqlText string, limit, offset int) (string, error) {
	return d.dia.ApplyLimit(sqlText, limit, offset)
}

// FetchMode returns the cursor variant Query produces.
func (d *sqlDriver) FetchMode() cursor.Mode { return d.mode }

// SetFetchMode selects the cursor variant Query produces.
func (d *sqlDriver) SetFetchMode(mode cursor.Mode) { d.mode = mode }

// wrap surfaces a native engine error uniformly, with the original SQL
// text attached. Errors are never retried here.
func (d *sqlDriver) wrap(sqlText string, err error) error {
	code := ""
	if d.classify != nil {
		code = d.classify(err)
	}
	return &dbal.ExecutionError{Code: code, SQL: sqlText, Cause: err}
}
