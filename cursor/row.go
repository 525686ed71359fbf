package cursor

import (
	"fmt"
	"strings"
)

// Row is a value-type snapshot of one fetched record: an ordered mapping
// from column name to value. It is produced fresh per fetch and keeps no
// reference back to the cursor that produced it.
type Row struct {
	columns []string
	values  []interface{}
}

// NewRow builds a row over the given columns and values. Both slices are
// shared, not copied; callers hand over ownership.
func NewRow(columns []string, values []interface{}) Row {
	return Row{columns: columns, values: values}
}

// Get returns the value of the named column. The second result is false
// when the column does not exist, so a missing key is observable rather
// than a silent nil.
func (r Row) Get(name string) (interface{}, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Value returns the value at column index i.
func (r Row) Value(i int) interface{} { return r.values[i] }

// Has reports whether the named column exists.
func (r Row) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Columns returns the column names in result order.
func (r Row) Columns() []string {
	cp := make([]string, len(r.columns))
	copy(cp, r.columns)
	return cp
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.columns) }

// Map returns an associative copy of the row.
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.columns))
	for i, col := range r.columns {
		m[col] = r.values[i]
	}
	return m
}

// String renders the row by field contents, in column order.
func (r Row) String() string {
	parts := make([]string, len(r.columns))
	for i, col := range r.columns {
		parts[i] = fmt.Sprintf("%s=%v", col, r.values[i])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
