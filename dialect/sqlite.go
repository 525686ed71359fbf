package dialect

import (
	"fmt"
	"strings"
	"time"
)

// SQLite renders SQLite lexical forms.
type SQLite struct{}

// Name returns the engine family name.
func (d *SQLite) Name() string { return "sqlite" }

// QuoteString doubles embedded single quotes. SQLite has no backslash
// escapes inside string literals.
func (d *SQLite) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier wraps ident in double quotes, doubling embedded ones.
func (d *SQLite) QuoteIdentifier(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// EscapeLike escapes LIKE wildcards with a backslash.
func (d *SQLite) EscapeLike(pattern string) string {
	return escapeLikeBackslash(pattern)
}

// BoolLiteral renders 1 or 0. SQLite has no boolean type.
func (d *SQLite) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DateLiteral renders an ISO date literal.
func (d *SQLite) DateLiteral(t time.Time) string {
	return "'" + t.Format(dateFormat) + "'"
}

// DateTimeLiteral renders an ISO datetime literal.
func (d *SQLite) DateTimeLiteral(t time.Time) string {
	return "'" + t.Format(dateTimeFormat) + "'"
}

// IntervalLiteral renders a datetime() modifier string in seconds.
func (d *SQLite) IntervalLiteral(dur time.Duration) (string, error) {
	secs := intervalSeconds(dur)
	if secs < 0 {
		return fmt.Sprintf("'%d seconds'", secs), nil
	}
	return fmt.Sprintf("'+%d seconds'", secs), nil
}

// BinaryLiteral renders a blob hex literal.
func (d *SQLite) BinaryLiteral(b []byte) string {
	return fmt.Sprintf("X'%x'", b)
}

// NullLiteral renders SQL NULL.
func (d *SQLite) NullLiteral() string { return "NULL" }

// ApplyLimit appends LIMIT/OFFSET.
func (d *SQLite) ApplyLimit(sql string, limit, offset int) (string, error) {
	if err := checkLimitArgs(limit, offset); err != nil {
		return "", err
	}
	return limitOffsetClause(sql, limit, offset), nil
}
