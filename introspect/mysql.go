package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/driver"
)

// MySQLReflector introspects MySQL/MariaDB through information_schema,
// scoped to the current database.
type MySQLReflector struct {
	drv driver.Driver
}

// Tables lists tables and views in the current database.
func (r *MySQLReflector) Tables(ctx context.Context) ([]Table, error) {
	rows, err := fetchAll(ctx, r.drv, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
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
func (r *MySQLReflector) Columns(ctx context.Context, table string) ([]dbal.Column, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT column_name, column_type, is_nullable, column_default,
		       character_maximum_length, extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = %s
		ORDER BY ordinal_position`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	cols := make([]dbal.Column, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, dbal.Column{
			Name:          rowString(row, "column_name"),
			NativeType:    rowString(row, "column_type"),
			Table:         table,
			FullName:      table + "." + rowString(row, "column_name"),
			Size:          rowInt(row, "character_maximum_length"),
			Nullable:      rowString(row, "is_nullable") == "YES",
			HasNullable:   true,
			DefaultValue:  rowNullableString(row, "column_default"),
			AutoIncrement: strings.Contains(rowString(row, "extra"), "auto_increment"),
		})
	}
	return cols, nil
}

// Indexes describes a table's indexes. The PRIMARY index name is reserved
// by MySQL for the primary key.
func (r *MySQLReflector) Indexes(ctx context.Context, table string) ([]Index, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT index_name, non_unique, column_name, seq_in_index
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = %s
		ORDER BY index_name, seq_in_index`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Index)
	var order []string
	for _, row := range rows {
		name := rowString(row, "index_name")
		idx, ok := byName[name]
		if !ok {
			idx = &Index{
				Name:    name,
				Unique:  rowInt(row, "non_unique") == 0,
				Primary: name == "PRIMARY",
			}
			byName[name] = idx
			order = append(order, name)
		}
		idx.Columns = append(idx.Columns, rowString(row, "column_name"))
	}
	indexes := make([]Index, 0, len(order))
	for _, name := range order {
		indexes = append(indexes, *byName[name])
	}
	return indexes, nil
}

// ForeignKeys describes a table's referential constraints.
func (r *MySQLReflector) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(`
		SELECT kcu.constraint_name, kcu.column_name,
		       kcu.referenced_table_name, kcu.referenced_column_name,
		       rc.update_rule, rc.delete_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = kcu.constraint_name
			AND rc.constraint_schema = kcu.table_schema
		WHERE kcu.table_schema = DATABASE()
		  AND kcu.table_name = %s
		  AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position`,
		r.drv.Dialect().QuoteString(table)))
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*ForeignKey)
	var order []string
	for _, row := range rows {
		name := rowString(row, "constraint_name")
		fk, ok := byName[name]
		if !ok {
			fk = &ForeignKey{
				Name:            name,
				ReferencedTable: rowString(row, "referenced_table_name"),
				OnUpdate:        rowString(row, "update_rule"),
				OnDelete:        rowString(row, "delete_rule"),
			}
			byName[name] = fk
			order = append(order, name)
		}
		fk.Columns = append(fk.Columns, rowString(row, "column_name"))
		fk.ReferencedColumns = append(fk.ReferencedColumns, rowString(row, "referenced_column_name"))
	}
	fks := make([]ForeignKey, 0, len(order))
	for _, name := range order {
		fks = append(fks, *byName[name])
	}
	return fks, nil
}
