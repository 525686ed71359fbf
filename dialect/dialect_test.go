package dialect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/param"
)

func TestFor(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{provider: "postgres", wantName: "postgres"},
		{provider: "postgresql", wantName: "postgres"},
		{provider: "mysql", wantName: "mysql"},
		{provider: "sqlite", wantName: "sqlite"},
		{provider: "sqlite3", wantName: "sqlite"},
		{provider: "sqlserver", wantName: "sqlserver"},
		{provider: "mssql", wantName: "sqlserver"},
		{provider: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := For(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"postgres embedded quote", &Postgres{}, "O'Brien", "'O''Brien'"},
		{"postgres plain", &Postgres{}, "hello", "'hello'"},
		{"postgres backslash", &Postgres{}, `a\b`, `E'a\\b'`},
		{"mysql embedded quote", &MySQL{}, "O'Brien", `'O\'Brien'`},
		{"mysql backslash", &MySQL{}, `a\b`, `'a\\b'`},
		{"mysql newline", &MySQL{}, "a\nb", `'a\nb'`},
		{"sqlite embedded quote", &SQLite{}, "O'Brien", "'O''Brien'"},
		{"sqlite backslash untouched", &SQLite{}, `a\b`, `'a\b'`},
		{"sqlserver embedded quote", mustSQLServer(t, ""), "O'Brien", "'O''Brien'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteString(tt.in))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"postgres", &Postgres{}, "user table", `"user table"`},
		{"postgres embedded quote", &Postgres{}, `a"b`, `"a""b"`},
		{"mysql", &MySQL{}, "order", "`order`"},
		{"mysql embedded backtick", &MySQL{}, "a`b", "`a``b`"},
		{"sqlite", &SQLite{}, "select", `"select"`},
		{"sqlserver", mustSQLServer(t, ""), "users", "[users]"},
		{"sqlserver embedded bracket", mustSQLServer(t, ""), "a]b", "[a]]b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteIdentifier(tt.in))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, (&Postgres{}).EscapeLike("50% off_now"))
	assert.Equal(t, `a\\b`, (&MySQL{}).EscapeLike(`a\b`))
	assert.Equal(t, `\[x\%`, mustSQLServer(t, "").EscapeLike("[x%"))
}

func TestScalarLiterals(t *testing.T) {
	when := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	t.Run("bool", func(t *testing.T) {
		assert.Equal(t, "TRUE", (&Postgres{}).BoolLiteral(true))
		assert.Equal(t, "FALSE", (&Postgres{}).BoolLiteral(false))
		assert.Equal(t, "1", (&MySQL{}).BoolLiteral(true))
		assert.Equal(t, "0", (&SQLite{}).BoolLiteral(false))
		assert.Equal(t, "1", mustSQLServer(t, "").BoolLiteral(true))
	})

	t.Run("date and datetime", func(t *testing.T) {
		for _, d := range allDialects(t) {
			assert.Equal(t, "'2024-03-15'", d.DateLiteral(when), d.Name())
			assert.Equal(t, "'2024-03-15 10:30:45'", d.DateTimeLiteral(when), d.Name())
		}
	})

	t.Run("interval", func(t *testing.T) {
		lit, err := (&Postgres{}).IntervalLiteral(90 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, "INTERVAL '90 seconds'", lit)

		lit, err = (&MySQL{}).IntervalLiteral(2 * time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "INTERVAL 120 SECOND", lit)

		lit, err = (&SQLite{}).IntervalLiteral(time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "'+3600 seconds'", lit)

		lit, err = (&SQLite{}).IntervalLiteral(-time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "'-60 seconds'", lit)

		_, err = mustSQLServer(t, "").IntervalLiteral(time.Minute)
		assert.True(t, dbal.IsCapability(err))
	})

	t.Run("binary", func(t *testing.T) {
		payload := []byte{0xde, 0xad, 0xbe, 0xef}
		assert.Equal(t, `'\xdeadbeef'`, (&Postgres{}).BinaryLiteral(payload))
		assert.Equal(t, "X'deadbeef'", (&MySQL{}).BinaryLiteral(payload))
		assert.Equal(t, "X'deadbeef'", (&SQLite{}).BinaryLiteral(payload))
		assert.Equal(t, "0xdeadbeef", mustSQLServer(t, "").BinaryLiteral(payload))
	})
}

func TestApplyLimit(t *testing.T) {
	base := "SELECT * FROM t"

	t.Run("limit offset engines", func(t *testing.T) {
		for _, d := range []Dialect{&Postgres{}, &MySQL{}, &SQLite{}} {
			got, err := d.ApplyLimit(base, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM t LIMIT 10", got, d.Name())

			got, err = d.ApplyLimit(base, 10, 5)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM t LIMIT 10 OFFSET 5", got, d.Name())
		}
	})

	t.Run("sqlserver top wrapper without offset", func(t *testing.T) {
		for _, version := range []string{"", "10.50.0", "15.0"} {
			got, err := mustSQLServer(t, version).ApplyLimit(base, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, "SELECT TOP 10 * FROM (SELECT * FROM t) t", got)
		}
	})

	t.Run("sqlserver offset fetch on 2012 and later", func(t *testing.T) {
		for _, version := range []string{"", "11.0", "15.0"} {
			got, err := mustSQLServer(t, version).ApplyLimit(base, 10, 5)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM t OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY", got)
		}
	})

	t.Run("sqlserver offset refused before 2012", func(t *testing.T) {
		_, err := mustSQLServer(t, "10.50.0").ApplyLimit(base, 10, 5)
		require.Error(t, err)
		assert.True(t, dbal.IsCapability(err))

		var capErr *dbal.CapabilityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, "OFFSET", capErr.Feature)
	})

	t.Run("negative arguments are usage errors everywhere", func(t *testing.T) {
		for _, d := range allDialects(t) {
			_, err := d.ApplyLimit(base, -1, 0)
			assert.ErrorIs(t, err, dbal.ErrInvalidArgument, d.Name())

			_, err = d.ApplyLimit(base, 10, -1)
			assert.ErrorIs(t, err, dbal.ErrInvalidArgument, d.Name())
		}
	})
}

func TestNewSQLServer_BadVersion(t *testing.T) {
	_, err := NewSQLServer("not-a-version")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	pg := &Postgres{}

	tests := []struct {
		name  string
		value param.Value
		want  string
	}{
		{"text", param.NewText("O'Brien"), "'O''Brien'"},
		{"ascii strips high characters", param.NewASCII("café"), "'caf'"},
		{"identifier", param.NewIdentifier("users"), `"users"`},
		{"int", param.NewInt(-42), "-42"},
		{"bool", param.NewBool(true), "TRUE"},
		{"null text", param.NewNull(param.Text), "NULL"},
		{"null list", param.NewNull(param.ValueList), "NULL"},
		{"binary", param.NewBinary([]byte{0x01}), `'\x01'`},
		{
			"value list",
			param.NewList(param.NewInt(1), param.NewText("x"), param.NewNull(param.Int)),
			"(1, 'x', NULL)",
		},
		{
			"identifier list",
			param.NewIdentifierList("id", "name"),
			`"id", "name"`,
		},
		{
			"set pairs",
			param.NewSetPairs(
				param.Pair{Column: "name", Value: param.NewText("x")},
				param.Pair{Column: "age", Value: param.NewInt(30)},
			),
			`"name" = 'x', "age" = 30`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(pg, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Numeric(t *testing.T) {
	v, err := param.NewNumeric(123.4, 5, 2)
	require.NoError(t, err)

	got, err := Render(&MySQL{}, v)
	require.NoError(t, err)
	assert.Equal(t, "123.40", got)
}

func TestRender_EmptyLists(t *testing.T) {
	pg := &Postgres{}

	_, err := Render(pg, param.NewList())
	assert.Error(t, err)

	_, err = Render(pg, param.NewIdentifierList())
	assert.Error(t, err)

	_, err = Render(pg, param.NewSetPairs())
	assert.Error(t, err)
}

func mustSQLServer(t *testing.T, version string) *SQLServer {
	t.Helper()
	d, err := NewSQLServer(version)
	require.NoError(t, err)
	return d
}

func allDialects(t *testing.T) []Dialect {
	t.Helper()
	return []Dialect{&Postgres{}, &MySQL{}, &SQLite{}, mustSQLServer(t, "")}
}
