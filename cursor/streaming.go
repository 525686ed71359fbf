package cursor

import (
	"github.com/dbal-go/dbal"
)

// StreamingCursor retrieves rows lazily from the engine, forward-only. A
// fetch position is lost once advanced; count and seek are unsupported.
type StreamingCursor struct {
	cols  []dbal.Column
	names []string
	src   RowSource
	freed bool
}

// NewStreaming returns a streaming cursor over src. The cursor takes
// ownership of src and closes it on Free.
func NewStreaming(cols []dbal.Column, src RowSource) *StreamingCursor {
	return &StreamingCursor{cols: cols, names: columnNames(cols), src: src}
}

// Fetch scans and returns the next row from the engine.
func (c *StreamingCursor) Fetch() (Row, bool, error) {
	if c.freed {
		return Row{}, false, &dbal.ReleasedError{Op: "fetch"}
	}
	if !c.src.Next() {
		if err := c.src.Err(); err != nil {
			return Row{}, false, err
		}
		return Row{}, false, nil
	}
	values, err := scanRow(c.src, len(c.cols))
	if err != nil {
		return Row{}, false, err
	}
	return NewRow(c.names, values), true, nil
}

// Seek fails: a streaming result has no random access.
func (c *StreamingCursor) Seek(int) (bool, error) {
	if c.freed {
		return false, &dbal.ReleasedError{Op: "seek"}
	}
	return false, &dbal.CapabilityError{Dialect: "streaming cursor", Feature: "seek"}
}

// Count fails: a streaming result's size is unknown until drained.
func (c *StreamingCursor) Count() (int, error) {
	if c.freed {
		return 0, &dbal.ReleasedError{Op: "count"}
	}
	return 0, &dbal.CapabilityError{Dialect: "streaming cursor", Feature: "count"}
}

// Columns returns the result column descriptors captured at execution.
func (c *StreamingCursor) Columns() ([]dbal.Column, error) {
	cp := make([]dbal.Column, len(c.cols))
	copy(cp, c.cols)
	return cp, nil
}

// Free closes the native handle. Repeated calls are no-ops.
func (c *StreamingCursor) Free() error {
	if c.freed {
		return nil
	}
	c.freed = true
	return c.src.Close()
}
