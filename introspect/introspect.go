// Package introspect reads schema metadata — tables, columns, indexes,
// foreign keys — through the same driver execution path as ordinary
// queries. Introspection is purely read-only and carries no transactional
// semantics.
package introspect

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/cursor"
	"github.com/dbal-go/dbal/driver"
)

// Table names one table or view.
type Table struct {
	Name   string
	IsView bool
}

// Index describes one table index.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Primary bool
}

// ForeignKey describes one referential constraint.
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnUpdate          string
	OnDelete          string
}

// Reflector is the read-only schema introspection surface.
type Reflector interface {
	// Tables lists tables and views.
	Tables(ctx context.Context) ([]Table, error)

	// Columns describes the columns of one table.
	Columns(ctx context.Context, table string) ([]dbal.Column, error)

	// Indexes describes the indexes of one table.
	Indexes(ctx context.Context, table string) ([]Index, error)

	// ForeignKeys describes the referential constraints of one table.
	ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error)
}

// New returns the reflector matching the driver's dialect.
func New(d driver.Driver) (Reflector, error) {
	switch d.Dialect().Name() {
	case "postgres":
		return &PostgresReflector{drv: d}, nil
	case "mysql":
		return &MySQLReflector{drv: d}, nil
	case "sqlite":
		return &SQLiteReflector{drv: d}, nil
	default:
		return nil, fmt.Errorf("introspect: no reflector for dialect %q", d.Dialect().Name())
	}
}

// fetchAll runs one query and drains its cursor, releasing it on every
// exit path.
func fetchAll(ctx context.Context, d driver.Driver, sqlText string) ([]cursor.Row, error) {
	cur, err := d.Query(ctx, sqlText)
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

// rowString reads a column as text. Engines report metadata with varying
// scan types, so numeric values are formatted rather than rejected.
func rowString(row cursor.Row, name string) string {
	v, ok := row.Get(name)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// rowInt reads a column as an integer.
func rowInt(row cursor.Row, name string) int64 {
	v, ok := row.Get(name)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// rowBool reads a column as a truth value.
func rowBool(row cursor.Row, name string) bool {
	v, ok := row.Get(name)
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case string:
		return b == "1" || b == "t" || b == "true" || b == "YES"
	default:
		return false
	}
}

// rowNullableString reads a column as text, nil when NULL.
func rowNullableString(row cursor.Row, name string) *string {
	v, ok := row.Get(name)
	if !ok || v == nil {
		return nil
	}
	s := rowString(row, name)
	return &s
}
