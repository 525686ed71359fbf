// Package cursor reconciles buffered and streaming result access under one
// contract. A buffered cursor materializes every row at execution time and
// supports count and random-access seek; a streaming cursor fetches rows
// lazily from the engine and is forward-only, failing count and seek with a
// capability error. Either way, release is idempotent and use after release
// is a released-resource error.
package cursor

import (
	"database/sql"

	"github.com/dbal-go/dbal"
)

// Mode selects the fetch semantics of a cursor built from a query result.
type Mode int

const (
	// Buffered materializes all rows at execution time.
	Buffered Mode = iota
	// Streaming retrieves rows one at a time, forward-only.
	Streaming
)

// Cursor is the capability surface over one executed query's results.
type Cursor interface {
	// Fetch returns the next row. The second result is false at
	// end-of-data. The returned row is a fresh snapshot owned entirely by
	// the caller.
	Fetch() (Row, bool, error)

	// Seek repositions the next Fetch to row n and reports whether that
	// position exists. Streaming cursors fail with a capability error.
	Seek(n int) (bool, error)

	// Count returns the total row count. Streaming cursors fail with a
	// capability error.
	Count() (int, error)

	// Columns returns the ordered result column descriptors. Available on
	// any cursor regardless of buffering, including after release.
	Columns() ([]dbal.Column, error)

	// Free releases the native result handle. It is effectively-once:
	// second and further calls are no-ops, never errors.
	Free() error
}

// RowSource is the forward iteration surface of a native result handle.
// *sql.Rows satisfies it.
type RowSource interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

// FromRows wraps an executed *sql.Rows in the cursor variant for mode.
// Buffered mode drains and closes rows before returning; streaming mode
// takes ownership of the handle and closes it on Free. On error the rows
// handle is closed before returning.
func FromRows(rows *sql.Rows, mode Mode) (Cursor, error) {
	cols, err := describeColumns(rows)
	if err != nil {
		rows.Close()
		return nil, err
	}
	if mode == Streaming {
		return NewStreaming(cols, rows), nil
	}
	defer rows.Close()
	var data [][]interface{}
	for rows.Next() {
		values, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewBuffered(cols, data), nil
}

// describeColumns reads result column metadata off the native handle.
func describeColumns(rows *sql.Rows) ([]dbal.Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]dbal.Column, len(types))
	for i, ct := range types {
		col := dbal.Column{
			Name:       ct.Name(),
			NativeType: ct.DatabaseTypeName(),
		}
		if nullable, ok := ct.Nullable(); ok {
			col.Nullable = nullable
			col.HasNullable = true
		}
		if length, ok := ct.Length(); ok {
			col.Size = length
		} else if precision, _, ok := ct.DecimalSize(); ok {
			col.Size = precision
		}
		cols[i] = col
	}
	return cols, nil
}

// scanRow scans the current row into owned values. Byte slices are copied
// to strings so the row holds nothing aliased to the driver's buffers.
func scanRow(src RowSource, width int) ([]interface{}, error) {
	values := make([]interface{}, width)
	ptrs := make([]interface{}, width)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := src.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

func columnNames(cols []dbal.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
