package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnguardedWrite(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"delete without where", "DELETE FROM sessions", true},
		{"update without where", "UPDATE users SET active = 0", true},
		{"lowercase keywords", "delete from sessions", true},
		{"leading whitespace", "   \n\tDELETE FROM sessions", true},
		{"delete with where", "DELETE FROM sessions WHERE id = 1", false},
		{"update with where", "UPDATE users SET active = 0 WHERE id = 1", false},
		{"where on a later line", "UPDATE users SET active = 0\nWHERE id = 1", false},
		{"lowercase where", "update users set active = 0 where id = 1", false},
		{"insert is never guarded", "INSERT INTO users (name) VALUES ('x')", false},
		{"select is never guarded", "SELECT * FROM users", false},
		{"update as an identifier prefix", "UPDATES FROM t", false},
		{"nowhere is not a where clause", "DELETE FROM nowhere_log", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnguardedWrite(tt.sql))
		})
	}
}

func TestQueryCommand_FlagValidation(t *testing.T) {
	runCommand := func(args ...string) error {
		cmd := NewQueryCommand()
		cmd.SetArgs(args)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return cmd.Execute()
	}

	t.Run("offset without limit is rejected", func(t *testing.T) {
		err := runCommand("--offset", "5", "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--offset requires --limit")
	})

	t.Run("watch without file is rejected", func(t *testing.T) {
		err := runCommand("--watch", "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--watch requires --file")
	})
}

func TestSchemaSubcommands_RequireTableArg(t *testing.T) {
	schema := NewSchemaCommand()

	for _, name := range []string{"columns", "indexes", "fks"} {
		t.Run(name, func(t *testing.T) {
			sub := findSubcommand(t, schema, name)
			require.NotNil(t, sub.Args)
			assert.Error(t, sub.Args(sub, nil))
			assert.NoError(t, sub.Args(sub, []string{"users"}))
			assert.Error(t, sub.Args(sub, []string{"users", "extra"}))
		})
	}
}

func findSubcommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("no %s subcommand", name)
	return nil
}
