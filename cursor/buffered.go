package cursor

import (
	"github.com/dbal-go/dbal"
)

// BufferedCursor holds every row of a result in memory. It supports count,
// absolute seek, and repeated forward or backward traversal.
type BufferedCursor struct {
	cols  []dbal.Column
	names []string
	rows  [][]interface{}
	pos   int
	freed bool
}

// NewBuffered returns a buffered cursor positioned before the first row.
func NewBuffered(cols []dbal.Column, rows [][]interface{}) *BufferedCursor {
	return &BufferedCursor{cols: cols, names: columnNames(cols), rows: rows}
}

// Fetch returns the row at the current position and advances.
func (c *BufferedCursor) Fetch() (Row, bool, error) {
	if c.freed {
		return Row{}, false, &dbal.ReleasedError{Op: "fetch"}
	}
	if c.pos >= len(c.rows) {
		return Row{}, false, nil
	}
	values := make([]interface{}, len(c.rows[c.pos]))
	copy(values, c.rows[c.pos])
	row := NewRow(c.names, values)
	c.pos++
	return row, true, nil
}

// Seek repositions the next Fetch to row n and reports whether that
// position exists. Out-of-range positions leave the cursor where it was.
func (c *BufferedCursor) Seek(n int) (bool, error) {
	if c.freed {
		return false, &dbal.ReleasedError{Op: "seek"}
	}
	if n < 0 || n >= len(c.rows) {
		return false, nil
	}
	c.pos = n
	return true, nil
}

// Count returns the materialized row count.
func (c *BufferedCursor) Count() (int, error) {
	if c.freed {
		return 0, &dbal.ReleasedError{Op: "count"}
	}
	return len(c.rows), nil
}

// Columns returns the result column descriptors.
func (c *BufferedCursor) Columns() ([]dbal.Column, error) {
	cp := make([]dbal.Column, len(c.cols))
	copy(cp, c.cols)
	return cp, nil
}

// Free drops the buffered rows. Repeated calls are no-ops.
func (c *BufferedCursor) Free() error {
	if c.freed {
		return nil
	}
	c.freed = true
	c.rows = nil
	return nil
}
