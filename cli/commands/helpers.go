package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dbal-go/dbal/conn"
	"github.com/dbal-go/dbal/cursor"
)

// openConnection dials the configured database and applies the fetch mode.
func openConnection(ctx context.Context) (*conn.Connection, error) {
	if rootFlags.url == "" {
		return nil, fmt.Errorf("no database URL: pass --url or set DATABASE_URL")
	}

	c, err := conn.Open(ctx, rootFlags.provider, rootFlags.url)
	if err != nil {
		return nil, err
	}

	switch rootFlags.fetchMode {
	case "", "buffered":
		c.Driver().SetFetchMode(cursor.Buffered)
	case "streaming":
		c.Driver().SetFetchMode(cursor.Streaming)
	default:
		_ = c.Close(ctx)
		return nil, fmt.Errorf("unknown fetch mode %q", rootFlags.fetchMode)
	}

	return c, nil
}

// resolveSQL returns the statement text from the file flag or the joined
// positional arguments.
func resolveSQL(file string, args []string) (string, error) {
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	sqlText := strings.TrimSpace(strings.Join(args, " "))
	if sqlText == "" {
		return "", fmt.Errorf("no SQL given: pass a statement or --file")
	}
	return sqlText, nil
}

// drainCursor renders a cursor as header and string rows, releasing it on
// every exit path.
func drainCursor(cur cursor.Cursor) ([]string, [][]string, error) {
	defer cur.Free()

	cols, err := cur.Columns()
	if err != nil {
		return nil, nil, err
	}
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Name
	}

	var rows [][]string
	for {
		row, ok, err := cur.Fetch()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return headers, rows, nil
		}
		cells := make([]string, row.Len())
		for i := 0; i < row.Len(); i++ {
			cells[i] = formatValue(row.Value(i))
		}
		rows = append(rows, cells)
	}
}

func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
