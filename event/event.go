// Package event carries query timing and row-count observations attached
// post hoc to completed driver operations. Events wrap exactly one driver
// call; they never influence execution.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies the wrapped operation.
type Kind string

const (
	// Query is a row-returning statement.
	Query Kind = "query"
	// Execute is a statement without a result cursor.
	Execute Kind = "execute"
	// Transaction is a begin/commit/rollback operation.
	Transaction Kind = "transaction"
)

// countable is the capability an event needs to observe a row count.
// Buffered cursors have it; streaming cursors fail it, which yields an
// absent count rather than an error.
type countable interface {
	Count() (int, error)
}

// QueryEvent observes one driver operation.
type QueryEvent struct {
	// ID uniquely names the event.
	ID uuid.UUID

	// Connection names the connection the operation ran on.
	Connection string

	// Kind is the operation class.
	Kind Kind

	// SQL is the finished statement text.
	SQL string

	// Started is the stamp taken at construction.
	Started time.Time

	// Elapsed is filled in by Done.
	Elapsed time.Duration

	// Rows is the observed result row count, nil when not countable.
	Rows *int

	// Affected is the affected-row count of an Execute, nil otherwise.
	Affected *int64

	// Err is the operation failure, nil on success.
	Err error
}

// Begin starts observing one operation.
func Begin(connection string, kind Kind, sqlText string) *QueryEvent {
	return &QueryEvent{
		ID:         uuid.New(),
		Connection: connection,
		Kind:       kind,
		SQL:        sqlText,
		Started:    time.Now(),
	}
}

// Done completes the event: it stamps the elapsed time and, when the
// result supports counting, captures the row count. A result that cannot
// be counted leaves Rows absent; that is not an error.
func (e *QueryEvent) Done(result interface{}, err error) {
	e.Elapsed = time.Since(e.Started)
	e.Err = err
	if err != nil || result == nil {
		return
	}
	switch r := result.(type) {
	case int64:
		affected := r
		e.Affected = &affected
	case countable:
		if n, countErr := r.Count(); countErr == nil {
			e.Rows = &n
		}
	}
}
