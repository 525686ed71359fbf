package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/driver"
)

// PostgresReflector introspects PostgreSQL through information_schema and
// the pg_catalog, scoped to the public schema.
type PostgresReflector struct {
	drv driver.Driver
}

// Tables lists tables and views in the public schema.
func (r *PostgresReflector) Tables(ctx context.Context) ([]Table, error) {
	rows, err := fetchAll(ctx, r.drv, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	tables := make([]Table, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, Table{
			Name:   rowString(row, "table_name"),
			IsView: rowString(row, "table_type") == "VIEW",
		})
	}
	return tables, nil
}

// Columns describes a table's columns.
func (r *PostgresReflector) Columns(ctx context.Context, table string) ([]dbal.Column, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT column_name, udt_name, is_nullable, column_default,
		       character_maximum_length, is_identity
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = %s
		ORDER BY ordinal_position`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	cols := make([]dbal.Column, 0, len(rows))
	for _, row := range rows {
		def := rowNullableString(row, "column_default")
		autoinc := rowString(row, "is_identity") == "YES" ||
			(def != nil && strings.HasPrefix(*def, "nextval("))
		cols = append(cols, dbal.Column{
			Name:          rowString(row, "column_name"),
			NativeType:    rowString(row, "udt_name"),
			Table:         table,
			FullName:      table + "." + rowString(row, "column_name"),
			Size:          rowInt(row, "character_maximum_length"),
			Nullable:      rowString(row, "is_nullable") == "YES",
			HasNullable:   true,
			DefaultValue:  def,
			AutoIncrement: autoinc,
		})
	}
	return cols, nil
}

// Indexes describes a table's indexes through the pg_catalog.
func (r *PostgresReflector) Indexes(ctx context.Context, table string) ([]Index, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT i.relname AS index_name,
		       array_to_string(array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum)), ',') AS columns,
		       ix.indisunique AS is_unique,
		       ix.indisprimary AS is_primary
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = 'public' AND t.relname = %s
		GROUP BY i.relname, ix.indisunique, ix.indisprimary
		ORDER BY i.relname`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	indexes := make([]Index, 0, len(rows))
	for _, row := range rows {
		indexes = append(indexes, Index{
			Name:    rowString(row, "index_name"),
			Columns: strings.Split(rowString(row, "columns"), ","),
			Unique:  rowBool(row, "is_unique"),
			Primary: rowBool(row, "is_primary"),
		})
	}
	return indexes, nil
}

// ForeignKeys describes a table's referential constraints.
func (r *PostgresReflector) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT tc.constraint_name,
		       array_to_string(array_agg(kcu.column_name ORDER BY kcu.ordinal_position), ',') AS columns,
		       ccu.table_name AS referenced_table,
		       array_to_string(array_agg(ccu.column_name ORDER BY kcu.ordinal_position), ',') AS referenced_columns,
		       rc.update_rule AS on_update,
		       rc.delete_rule AS on_delete
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = 'public'
		  AND tc.table_name = %s
		GROUP BY tc.constraint_name, ccu.table_name, rc.update_rule, rc.delete_rule
		ORDER BY tc.constraint_name`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	fks := make([]ForeignKey, 0, len(rows))
	for _, row := range rows {
		fks = append(fks, ForeignKey{
			Name:              rowString(row, "constraint_name"),
			Columns:           strings.Split(rowString(row, "columns"), ","),
			ReferencedTable:   rowString(row, "referenced_table"),
			ReferencedColumns: strings.Split(rowString(row, "referenced_columns"), ","),
			OnUpdate:          rowString(row, "on_update"),
			OnDelete:          rowString(row, "on_delete"),
		})
	}
	return fks, nil
}
