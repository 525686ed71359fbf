// Package conn provides the connection facade over one driver: it owns
// the translator and its substitution table, turns argument sequences into
// SQL, executes through the driver, and wraps results. A connection is
// exclusively owned by one caller; operations on it are strictly
// sequential.
package conn

import (
	"context"

	"github.com/google/uuid"

	"github.com/dbal-go/dbal/cursor"
	"github.com/dbal-go/dbal/driver"
	"github.com/dbal-go/dbal/event"
	"github.com/dbal-go/dbal/internal/debug"
	"github.com/dbal-go/dbal/translate"
)

// Connection orchestrates translate, execute, and result wrapping over
// exactly one driver instance.
type Connection struct {
	id      string
	drv     driver.Driver
	tr      *translate.Translator
	observe func(*event.QueryEvent)
}

// New wraps an unconnected driver. Call Connect before issuing queries,
// or use Open.
func New(d driver.Driver) *Connection {
	return &Connection{
		id:  uuid.NewString(),
		drv: d,
		tr:  translate.New(d.Dialect()),
	}
}

// Open builds a driver for the provider, connects it, and returns the
// connection.
func Open(ctx context.Context, provider, dsn string) (*Connection, error) {
	d, err := driver.Open(provider, dsn)
	if err != nil {
		return nil, err
	}
	c := New(d)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the connection's identity used in events and logs.
func (c *Connection) ID() string { return c.id }

// Driver returns the owned driver.
func (c *Connection) Driver() driver.Driver { return c.drv }

// Translator returns the connection's translator.
func (c *Connection) Translator() *translate.Translator { return c.tr }

// OnEvent registers an observer for completed operations. Passing nil
// removes it.
func (c *Connection) OnEvent(fn func(*event.QueryEvent)) { c.observe = fn }

// Connect establishes the engine session.
func (c *Connection) Connect(ctx context.Context) error {
	return c.drv.Connect(ctx)
}

// Close tears down the engine session.
func (c *Connection) Close(ctx context.Context) error {
	return c.drv.Disconnect(ctx)
}

// Substitute adds a substitution-table entry used by Translate.
func (c *Connection) Substitute(name, replacement string) {
	c.tr.Substitute(name, replacement)
}

// RemoveSubstitution deletes a substitution-table entry.
func (c *Connection) RemoveSubstitution(name string) {
	c.tr.RemoveSubstitution(name)
}

// Translate assembles SQL from the argument sequence without executing it.
func (c *Connection) Translate(args ...interface{}) (string, error) {
	return c.tr.Translate(args...)
}

// Query translates the argument sequence and executes it, returning the
// driver's cursor. The caller owns the cursor and must Free it; QueryAll
// handles release automatically.
func (c *Connection) Query(ctx context.Context, args ...interface{}) (cursor.Cursor, error) {
	sqlText, err := c.tr.Translate(args...)
	if err != nil {
		return nil, err
	}
	return c.queryText(ctx, sqlText)
}

// SelectLimit translates the argument sequence, injects the dialect's
// row-limiting syntax, and executes.
func (c *Connection) SelectLimit(ctx context.Context, limit, offset int, args ...interface{}) (cursor.Cursor, error) {
	sqlText, err := c.tr.Translate(args...)
	if err != nil {
		return nil, err
	}
	limited, err := c.drv.ApplyLimit(sqlText, limit, offset)
	if err != nil {
		return nil, err
	}
	return c.queryText(ctx, limited)
}

// QueryAll translates and executes, drains the cursor, and releases it on
// every exit path.
func (c *Connection) QueryAll(ctx context.Context, args ...interface{}) ([]cursor.Row, error) {
	cur, err := c.Query(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer cur.Free()

	var rows []cursor.Row
	for {
		row, ok, err := cur.Fetch()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// Execute translates the argument sequence and runs it as a statement,
// returning the affected row count.
func (c *Connection) Execute(ctx context.Context, args ...interface{}) (int64, error) {
	sqlText, err := c.tr.Translate(args...)
	if err != nil {
		return 0, err
	}
	ev := event.Begin(c.id, event.Execute, sqlText)
	affected, err := c.drv.Execute(ctx, sqlText)
	ev.Done(affected, err)
	c.emit(ev)
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// AffectedRows reports the row count of the last Execute.
func (c *Connection) AffectedRows() int64 { return c.drv.AffectedRows() }

// LastInsertID reports the identity generated by the last Execute.
func (c *Connection) LastInsertID() (int64, error) { return c.drv.LastInsertID() }

// Begin opens a transaction on the driver.
func (c *Connection) Begin(ctx context.Context) error {
	ev := event.Begin(c.id, event.Transaction, "BEGIN")
	err := c.drv.Begin(ctx)
	ev.Done(nil, err)
	c.emit(ev)
	return err
}

// Commit commits the open transaction.
func (c *Connection) Commit() error {
	ev := event.Begin(c.id, event.Transaction, "COMMIT")
	err := c.drv.Commit()
	ev.Done(nil, err)
	c.emit(ev)
	return err
}

// Rollback rolls back the open transaction.
func (c *Connection) Rollback() error {
	ev := event.Begin(c.id, event.Transaction, "ROLLBACK")
	err := c.drv.Rollback()
	ev.Done(nil, err)
	c.emit(ev)
	return err
}

// Savepoint creates a named savepoint.
func (c *Connection) Savepoint(ctx context.Context, name string) error {
	return c.drv.Savepoint(ctx, name)
}

// RollbackTo rolls back to a named savepoint.
func (c *Connection) RollbackTo(ctx context.Context, name string) error {
	return c.drv.RollbackTo(ctx, name)
}

// ReleaseSavepoint releases a named savepoint.
func (c *Connection) ReleaseSavepoint(ctx context.Context, name string) error {
	return c.drv.ReleaseSavepoint(ctx, name)
}

func (c *Connection) queryText(ctx context.Context, sqlText string) (cursor.Cursor, error) {
	ev := event.Begin(c.id, event.Query, sqlText)
	cur, err := c.drv.Query(ctx, sqlText)
	ev.Done(cur, err)
	c.emit(ev)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c *Connection) emit(ev *event.QueryEvent) {
	debug.Debug("dbal operation",
		"conn", c.id,
		"kind", string(ev.Kind),
		"sql", ev.SQL,
		"elapsed", ev.Elapsed,
		"err", ev.Err,
	)
	if c.observe != nil {
		c.observe(ev)
	}
}
