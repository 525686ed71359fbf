package conn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/event"
	"github.com/dbal-go/dbal/param"
	"github.com/dbal-go/dbal/translate"
)

func openTestConnection(t *testing.T) (*Connection, context.Context) {
	t.Helper()
	ctx := context.Background()
	c, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })

	_, err = c.Execute(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, active INTEGER)")
	require.NoError(t, err)
	return c, ctx
}

func TestOpen_UnknownProvider(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}

func TestExecuteAndQuery(t *testing.T) {
	c, ctx := openTestConnection(t)

	affected, err := c.Execute(ctx,
		"INSERT INTO users (name, active) VALUES (", param.NewText("O'Brien"), ", ", true, ")")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, int64(1), c.AffectedRows())

	id, err := c.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	cur, err := c.Query(ctx, "SELECT name FROM users WHERE name = ", param.NewText("O'Brien"))
	require.NoError(t, err)
	defer cur.Free()

	row, ok, err := cur.Fetch()
	require.NoError(t, err)
	require.True(t, ok)
	name, _ := row.Get("name")
	assert.Equal(t, "O'Brien", name)
}

func TestQueryAll(t *testing.T) {
	c, ctx := openTestConnection(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText(name), ")")
		require.NoError(t, err)
	}

	rows, err := c.QueryAll(ctx, "SELECT name FROM users ORDER BY name")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first, _ := rows[0].Get("name")
	assert.Equal(t, "alice", first)
}

func TestSelectLimit(t *testing.T) {
	c, ctx := openTestConnection(t)

	for i := 0; i < 10; i++ {
		_, err := c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText("u"), ")")
		require.NoError(t, err)
	}

	cur, err := c.SelectLimit(ctx, 3, 5, "SELECT id FROM users ORDER BY id")
	require.NoError(t, err)
	defer cur.Free()

	n, err := cur.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	row, ok, err := cur.Fetch()
	require.NoError(t, err)
	require.True(t, ok)
	id, _ := row.Get("id")
	assert.Equal(t, int64(6), id)

	t.Run("negative limit is a usage error", func(t *testing.T) {
		_, err := c.SelectLimit(ctx, -1, 0, "SELECT id FROM users")
		assert.ErrorIs(t, err, dbal.ErrInvalidArgument)
	})
}

func TestTranslationErrorsStopBeforeExecution(t *testing.T) {
	c, ctx := openTestConnection(t)

	_, err := c.Query(ctx, "SELECT * FROM users WHERE id IN ", translate.Typed(param.ValueList, []int{}))
	require.Error(t, err)
	assert.True(t, dbal.IsTranslation(err))

	_, err = c.Execute(ctx, "UPDATE users SET score = ", 1.5)
	require.Error(t, err)
	assert.True(t, dbal.IsTranslation(err))
}

func TestSubstitutionsOnConnection(t *testing.T) {
	c, ctx := openTestConnection(t)
	c.Substitute("tbl", "users")

	_, err := c.Execute(ctx, "INSERT INTO :tbl: (name) VALUES (", param.NewText("x"), ")")
	require.NoError(t, err)

	rows, err := c.QueryAll(ctx, "SELECT name FROM :tbl:")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	c.RemoveSubstitution("tbl")
	_, err = c.QueryAll(ctx, "SELECT name FROM :tbl:")
	assert.True(t, dbal.IsTranslation(err))
}

func TestTransactions(t *testing.T) {
	c, ctx := openTestConnection(t)

	require.NoError(t, c.Begin(ctx))
	_, err := c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText("temp"), ")")
	require.NoError(t, err)
	require.NoError(t, c.Rollback())

	rows, err := c.QueryAll(ctx, "SELECT id FROM users")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, c.Begin(ctx))
	_, err = c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText("kept"), ")")
	require.NoError(t, err)
	require.NoError(t, c.Savepoint(ctx, "sp"))
	_, err = c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText("undone"), ")")
	require.NoError(t, err)
	require.NoError(t, c.RollbackTo(ctx, "sp"))
	require.NoError(t, c.Commit())

	rows, err = c.QueryAll(ctx, "SELECT name FROM users")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	name, _ := rows[0].Get("name")
	assert.Equal(t, "kept", name)
}

func TestEvents(t *testing.T) {
	c, ctx := openTestConnection(t)

	var events []*event.QueryEvent
	c.OnEvent(func(ev *event.QueryEvent) { events = append(events, ev) })

	_, err := c.Execute(ctx, "INSERT INTO users (name) VALUES (", param.NewText("a"), ")")
	require.NoError(t, err)

	cur, err := c.Query(ctx, "SELECT * FROM users")
	require.NoError(t, err)
	cur.Free()

	require.Len(t, events, 2)

	assert.Equal(t, event.Execute, events[0].Kind)
	require.NotNil(t, events[0].Affected)
	assert.Equal(t, int64(1), *events[0].Affected)

	assert.Equal(t, event.Query, events[1].Kind)
	assert.Equal(t, "SELECT * FROM users", events[1].SQL)
	require.NotNil(t, events[1].Rows)
	assert.Equal(t, 1, *events[1].Rows)
	assert.Equal(t, c.ID(), events[1].Connection)

	t.Run("translation failures emit nothing", func(t *testing.T) {
		before := len(events)
		_, err := c.Query(ctx, "SELECT * FROM :oops:")
		require.Error(t, err)
		assert.Len(t, events, before)
	})

	t.Run("execution failures are observed", func(t *testing.T) {
		before := len(events)
		_, err := c.Execute(ctx, "INSERT INTO missing (v) VALUES (1)")
		require.Error(t, err)
		require.Len(t, events, before+1)
		assert.Error(t, events[before].Err)
	})
}
