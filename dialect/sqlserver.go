package dialect

import (
	"fmt"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/dbal-go/dbal"
)

// offsetFetchMinVersion is SQL Server 2012, the first release with the
// OFFSET ... FETCH clause.
var offsetFetchMinVersion = goversion.Must(goversion.NewVersion("11.0"))

// SQLServer renders T-SQL lexical forms. Row limiting is gated on the
// engine version: 2012 and later can express OFFSET, older releases only a
// TOP-N wrapper.
type SQLServer struct {
	version *goversion.Version
}

// NewSQLServer returns a SQL Server dialect for the given engine version
// ("10.50", "11.0", "15.0", ...). An empty version selects a modern engine
// with full OFFSET support.
func NewSQLServer(engineVersion string) (*SQLServer, error) {
	if engineVersion == "" {
		return &SQLServer{version: offsetFetchMinVersion}, nil
	}
	v, err := goversion.NewVersion(engineVersion)
	if err != nil {
		return nil, fmt.Errorf("dialect: bad sqlserver version %q: %w", engineVersion, err)
	}
	return &SQLServer{version: v}, nil
}

// Name returns the engine family name.
func (d *SQLServer) Name() string { return "sqlserver" }

// supportsOffsetFetch reports whether the engine version has OFFSET..FETCH.
func (d *SQLServer) supportsOffsetFetch() bool {
	return d.version.GreaterThanOrEqual(offsetFetchMinVersion)
}

// QuoteString doubles embedded single quotes.
func (d *SQLServer) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier wraps ident in brackets, doubling embedded closing
// brackets: a]b becomes [a]]b].
func (d *SQLServer) QuoteIdentifier(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

// EscapeLike escapes LIKE wildcards, including T-SQL's bracket wildcard,
// with a backslash.
func (d *SQLServer) EscapeLike(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)
	return r.Replace(pattern)
}

// BoolLiteral renders 1 or 0 for the bit type.
func (d *SQLServer) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DateLiteral renders an ISO date literal.
func (d *SQLServer) DateLiteral(t time.Time) string {
	return "'" + t.Format(dateFormat) + "'"
}

// DateTimeLiteral renders an ISO datetime literal.
func (d *SQLServer) DateTimeLiteral(t time.Time) string {
	return "'" + t.Format(dateTimeFormat) + "'"
}

// IntervalLiteral fails: T-SQL has no interval literal, date arithmetic
// goes through DATEADD.
func (d *SQLServer) IntervalLiteral(time.Duration) (string, error) {
	return "", &dbal.CapabilityError{Dialect: d.Name(), Feature: "interval literals"}
}

// BinaryLiteral renders an unquoted hex constant.
func (d *SQLServer) BinaryLiteral(b []byte) string {
	return fmt.Sprintf("0x%x", b)
}

// NullLiteral renders SQL NULL.
func (d *SQLServer) NullLiteral() string { return "NULL" }

// ApplyLimit rewrites sql with the row-limiting form the engine version can
// express. Without an offset the query is wrapped in a TOP-N subselect,
// which works on every release. A positive offset requires 2012 or later
// and renders OFFSET n ROWS FETCH NEXT m ROWS ONLY; older engines fail with
// a capability error rather than silently dropping the offset.
func (d *SQLServer) ApplyLimit(sql string, limit, offset int) (string, error) {
	if err := checkLimitArgs(limit, offset); err != nil {
		return "", err
	}
	if offset == 0 {
		return fmt.Sprintf("SELECT TOP %d * FROM (%s) t", limit, sql), nil
	}
	if !d.supportsOffsetFetch() {
		return "", &dbal.CapabilityError{
			Dialect: d.Name(),
			Feature: "OFFSET",
			Version: d.version.String(),
		}
	}
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sql, offset, limit), nil
}
