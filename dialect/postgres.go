package dialect

import (
	"fmt"
	"strings"
	"time"
)

// Postgres renders PostgreSQL lexical forms.
type Postgres struct{}

// Name returns the engine family name.
func (d *Postgres) Name() string { return "postgres" }

// QuoteString doubles embedded single quotes. Strings containing a
// backslash use the E'' form with doubled backslashes so the literal is
// safe regardless of the standard_conforming_strings setting.
func (d *Postgres) QuoteString(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	if strings.Contains(s, `\`) {
		return "E'" + strings.ReplaceAll(escaped, `\`, `\\`) + "'"
	}
	return "'" + escaped + "'"
}

// QuoteIdentifier wraps ident in double quotes, doubling embedded ones.
func (d *Postgres) QuoteIdentifier(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// EscapeLike escapes LIKE wildcards with a backslash.
func (d *Postgres) EscapeLike(pattern string) string {
	return escapeLikeBackslash(pattern)
}

// BoolLiteral renders TRUE or FALSE.
func (d *Postgres) BoolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// DateLiteral renders an ISO date literal.
func (d *Postgres) DateLiteral(t time.Time) string {
	return "'" + t.Format(dateFormat) + "'"
}

// DateTimeLiteral renders an ISO timestamp literal.
func (d *Postgres) DateTimeLiteral(t time.Time) string {
	return "'" + t.Format(dateTimeFormat) + "'"
}

// IntervalLiteral renders an INTERVAL literal in seconds.
func (d *Postgres) IntervalLiteral(dur time.Duration) (string, error) {
	return fmt.Sprintf("INTERVAL '%d seconds'", intervalSeconds(dur)), nil
}

// BinaryLiteral renders a bytea hex literal.
func (d *Postgres) BinaryLiteral(b []byte) string {
	return fmt.Sprintf(`'\x%x'`, b)
}

// NullLiteral renders SQL NULL.
func (d *Postgres) NullLiteral() string { return "NULL" }

// ApplyLimit appends LIMIT/OFFSET.
func (d *Postgres) ApplyLimit(sql string, limit, offset int) (string, error) {
	if err := checkLimitArgs(limit, offset); err != nil {
		return "", err
	}
	return limitOffsetClause(sql, limit, offset), nil
}
