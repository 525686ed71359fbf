// Package dialect implements the per-engine escaping and encoding policy:
// one rendering rule per parameter kind, identifier quoting, LIKE-pattern
// escaping, and LIMIT/OFFSET rewriting. Implementations are stateless apart
// from engine version gating.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/param"
)

// Dialect renders parameter values into engine-correct SQL lexical form and
// rewrites queries for row limiting.
type Dialect interface {
	// Name returns the engine family name.
	Name() string

	// QuoteString renders s as a string literal, escaping embedded quote
	// characters per the engine's rules.
	QuoteString(s string) string

	// QuoteIdentifier renders ident as a delimited identifier, escaping the
	// engine's delimiter character.
	QuoteIdentifier(ident string) string

	// EscapeLike escapes LIKE wildcard characters in pattern with a
	// backslash. The caller supplies the surrounding LIKE ... ESCAPE clause.
	EscapeLike(pattern string) string

	// BoolLiteral renders a boolean as the engine's truthy or falsy token.
	BoolLiteral(b bool) string

	// DateLiteral renders a calendar date.
	DateLiteral(t time.Time) string

	// DateTimeLiteral renders a date with time of day.
	DateTimeLiteral(t time.Time) string

	// IntervalLiteral renders a date interval, or fails with a capability
	// error on engines without interval literals.
	IntervalLiteral(d time.Duration) (string, error)

	// BinaryLiteral renders a byte string.
	BinaryLiteral(b []byte) string

	// NullLiteral renders SQL NULL.
	NullLiteral() string

	// ApplyLimit rewrites sql to return at most limit rows starting at
	// offset, using the engine's own syntax. Negative limit or offset is a
	// usage error; an offset the engine version cannot express is a
	// capability error.
	ApplyLimit(sql string, limit, offset int) (string, error)
}

// For returns the dialect for the given provider name. SQL Server defaults
// to a modern engine version; use NewSQLServer to gate by version.
func For(provider string) (Dialect, error) {
	switch provider {
	case "postgresql", "postgres":
		return &Postgres{}, nil
	case "mysql":
		return &MySQL{}, nil
	case "sqlite", "sqlite3":
		return &SQLite{}, nil
	case "sqlserver", "mssql":
		return NewSQLServer("")
	default:
		return nil, fmt.Errorf("dialect: unknown provider %q", provider)
	}
}

// Render renders one parameter value through the dialect's rule for its
// kind. NULL payloads render the NULL literal regardless of kind. List
// kinds expand element-wise; an empty list is rejected here as well so no
// caller can emit a bare pair of parentheses.
func Render(d Dialect, v param.Value) (string, error) {
	if v.IsNull() {
		return d.NullLiteral(), nil
	}
	switch v.Kind() {
	case param.Text:
		return d.QuoteString(v.Text()), nil
	case param.ASCIIText:
		return d.QuoteString(stripNonASCII(v.Text())), nil
	case param.Identifier:
		return d.QuoteIdentifier(v.Text()), nil
	case param.Int:
		return strconv.FormatInt(v.Int(), 10), nil
	case param.Numeric:
		f, _, scale := v.Numeric()
		return strconv.FormatFloat(f, 'f', scale, 64), nil
	case param.Bool:
		return d.BoolLiteral(v.Bool()), nil
	case param.Date:
		return d.DateLiteral(v.Time()), nil
	case param.DateTime:
		return d.DateTimeLiteral(v.Time()), nil
	case param.Interval:
		return d.IntervalLiteral(v.Duration())
	case param.Binary:
		return d.BinaryLiteral(v.Bytes()), nil
	case param.ValueList:
		inner, err := renderElements(d, v.List())
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case param.IdentifierList:
		return renderElements(d, v.List())
	case param.SetPairs:
		pairs := v.Pairs()
		if len(pairs) == 0 {
			return "", fmt.Errorf("dialect: empty assignment list")
		}
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			rendered, err := Render(d, p.Value)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("%s = %s", d.QuoteIdentifier(p.Column), rendered)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("dialect: unknown kind %s", v.Kind())
	}
}

func renderElements(d Dialect, vals []param.Value) (string, error) {
	if len(vals) == 0 {
		return "", fmt.Errorf("dialect: empty list")
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		rendered, err := Render(d, v)
		if err != nil {
			return "", err
		}
		parts[i] = rendered
	}
	return strings.Join(parts, ", "), nil
}

func stripNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// checkLimitArgs rejects negative limit or offset for every dialect.
func checkLimitArgs(limit, offset int) error {
	if limit < 0 {
		return fmt.Errorf("%w: negative limit %d", dbal.ErrInvalidArgument, limit)
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", dbal.ErrInvalidArgument, offset)
	}
	return nil
}

// limitOffsetClause appends the LIMIT/OFFSET form shared by Postgres,
// MySQL, and SQLite.
func limitOffsetClause(sql string, limit, offset int) string {
	sql += fmt.Sprintf(" LIMIT %d", limit)
	if offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", offset)
	}
	return sql
}

// escapeLikeBackslash escapes \, %, and _ with a backslash.
func escapeLikeBackslash(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(pattern)
}

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// intervalSeconds renders d as whole seconds, truncating sub-second parts.
func intervalSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
