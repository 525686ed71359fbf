package dialect

import (
	"fmt"
	"strings"
	"time"
)

// MySQL renders MySQL/MariaDB lexical forms.
type MySQL struct{}

// mysqlStringEscaper covers the characters mysql_real_escape_string treats
// specially.
var mysqlStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

// Name returns the engine family name.
func (d *MySQL) Name() string { return "mysql" }

// QuoteString backslash-escapes the characters MySQL treats specially.
func (d *MySQL) QuoteString(s string) string {
	return "'" + mysqlStringEscaper.Replace(s) + "'"
}

// QuoteIdentifier wraps ident in backticks, doubling embedded ones.
func (d *MySQL) QuoteIdentifier(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// EscapeLike escapes LIKE wildcards with a backslash.
func (d *MySQL) EscapeLike(pattern string) string {
	return escapeLikeBackslash(pattern)
}

// BoolLiteral renders 1 or 0.
func (d *MySQL) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DateLiteral renders an ISO date literal.
func (d *MySQL) DateLiteral(t time.Time) string {
	return "'" + t.Format(dateFormat) + "'"
}

// DateTimeLiteral renders an ISO datetime literal.
func (d *MySQL) DateTimeLiteral(t time.Time) string {
	return "'" + t.Format(dateTimeFormat) + "'"
}

// IntervalLiteral renders an INTERVAL expression in seconds.
func (d *MySQL) IntervalLiteral(dur time.Duration) (string, error) {
	return fmt.Sprintf("INTERVAL %d SECOND", intervalSeconds(dur)), nil
}

// BinaryLiteral renders a hex string literal.
func (d *MySQL) BinaryLiteral(b []byte) string {
	return fmt.Sprintf("X'%x'", b)
}

// NullLiteral renders SQL NULL.
func (d *MySQL) NullLiteral() string { return "NULL" }

// ApplyLimit appends LIMIT/OFFSET.
func (d *MySQL) ApplyLimit(sql string, limit, offset int) (string, error) {
	if err := checkLimitArgs(limit, offset); err != nil {
		return "", err
	}
	return limitOffsetClause(sql, limit, offset), nil
}
