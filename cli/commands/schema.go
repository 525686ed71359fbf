package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbal-go/dbal/cli/internal/ui"
	"github.com/dbal-go/dbal/conn"
	"github.com/dbal-go/dbal/introspect"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the database schema",
		Long:  "Commands to list tables and describe their columns, indexes, and foreign keys.",
	}

	cmd.AddCommand(newSchemaTablesCommand())
	cmd.AddCommand(newSchemaColumnsCommand())
	cmd.AddCommand(newSchemaIndexesCommand())
	cmd.AddCommand(newSchemaFKsCommand())
	return cmd
}

func newSchemaTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and views",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReflector(func(ctx context.Context, r introspect.Reflector) error {
				tables, err := r.Tables(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(tables))
				for _, t := range tables {
					kind := "table"
					if t.IsView {
						kind = "view"
					}
					rows = append(rows, []string{t.Name, kind})
				}
				ui.PrintTable([]string{"Name", "Kind"}, rows)
				return nil
			})
		},
	}
}

func newSchemaColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Describe the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReflector(func(ctx context.Context, r introspect.Reflector) error {
				cols, err := r.Columns(ctx, args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(cols))
				for _, col := range cols {
					nullable := "?"
					if col.HasNullable {
						nullable = strconv.FormatBool(col.Nullable)
					}
					def := ""
					if col.DefaultValue != nil {
						def = *col.DefaultValue
					}
					rows = append(rows, []string{
						col.Name,
						col.NativeType,
						nullable,
						def,
						strconv.FormatBool(col.AutoIncrement),
					})
				}
				ui.PrintTable([]string{"Column", "Type", "Nullable", "Default", "AutoIncrement"}, rows)
				return nil
			})
		},
	}
}

func newSchemaIndexesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <table>",
		Short: "List the indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReflector(func(ctx context.Context, r introspect.Reflector) error {
				indexes, err := r.Indexes(ctx, args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(indexes))
				for _, idx := range indexes {
					rows = append(rows, []string{
						idx.Name,
						strings.Join(idx.Columns, ", "),
						strconv.FormatBool(idx.Unique),
						strconv.FormatBool(idx.Primary),
					})
				}
				ui.PrintTable([]string{"Index", "Columns", "Unique", "Primary"}, rows)
				return nil
			})
		},
	}
}

func newSchemaFKsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fks <table>",
		Short: "List the foreign keys of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReflector(func(ctx context.Context, r introspect.Reflector) error {
				fks, err := r.ForeignKeys(ctx, args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(fks))
				for _, fk := range fks {
					rows = append(rows, []string{
						fk.Name,
						strings.Join(fk.Columns, ", "),
						fk.ReferencedTable,
						strings.Join(fk.ReferencedColumns, ", "),
						fk.OnUpdate,
						fk.OnDelete,
					})
				}
				ui.PrintTable([]string{"Name", "Columns", "References", "Ref Columns", "On Update", "On Delete"}, rows)
				return nil
			})
		},
	}
}

func withReflector(fn func(context.Context, introspect.Reflector) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := openConnection(ctx)
	if err != nil {
		return err
	}
	defer func(c *conn.Connection) { _ = c.Close(ctx) }(c)

	r, err := introspect.New(c.Driver())
	if err != nil {
		return err
	}
	return fn(ctx, r)
}
