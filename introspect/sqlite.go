package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/driver"
)

// SQLiteReflector introspects SQLite through sqlite_master and PRAGMA
// statements.
type SQLiteReflector struct {
	drv driver.Driver
}

// Tables lists tables and views, excluding SQLite's internal tables.
func (r *SQLiteReflector) Tables(ctx context.Context) ([]Table, error) {
	rows, err := fetchAll(ctx, r.drv, `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	tables := make([]Table, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, Table{
			Name:   rowString(row, "name"),
			IsView: rowString(row, "type") == "view",
		})
	}
	return tables, nil
}

// Columns describes a table via PRAGMA table_info.
func (r *SQLiteReflector) Columns(ctx context.Context, table string) ([]dbal.Column, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(
		"PRAGMA table_info(%s)", r.drv.Dialect().QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	cols := make([]dbal.Column, 0, len(rows))
	for _, row := range rows {
		nativeType := rowString(row, "type")
		pk := rowInt(row, "pk") > 0
		col := dbal.Column{
			Name:        rowString(row, "name"),
			NativeType:  nativeType,
			Table:       table,
			FullName:    table + "." + rowString(row, "name"),
			Nullable:    rowInt(row, "notnull") == 0 && !pk,
			HasNullable: true,
			// An INTEGER primary key aliases the rowid and autoincrements.
			AutoIncrement: pk && strings.EqualFold(nativeType, "INTEGER"),
			DefaultValue:  rowNullableString(row, "dflt_value"),
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Indexes describes a table via PRAGMA index_list and index_info.
func (r *SQLiteReflector) Indexes(ctx context.Context, table string) ([]Index, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(
		"PRAGMA index_list(%s)", r.drv.Dialect().QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	indexes := make([]Index, 0, len(rows))
	for _, row := range rows {
		idx := Index{
			Name:    rowString(row, "name"),
			Unique:  rowInt(row, "unique") != 0,
			Primary: rowString(row, "origin") == "pk",
		}
		infoRows, err := fetchAll(ctx, r.drv, fmt.Sprintf(
			"PRAGMA index_info(%s)", r.drv.Dialect().QuoteIdentifier(idx.Name)))
		if err != nil {
			return nil, err
		}
		for _, info := range infoRows {
			idx.Columns = append(idx.Columns, rowString(info, "name"))
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// ForeignKeys describes a table via PRAGMA foreign_key_list. SQLite does
// not name its constraints; keys are named by ordinal.
func (r *SQLiteReflector) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := fetchAll(ctx, r.drv, fmt.Sprintf(
		"PRAGMA foreign_key_list(%s)", r.drv.Dialect().QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	// Rows arrive one per column, grouped by the id field.
	byID := make(map[int64]*ForeignKey)
	var order []int64
	for _, row := range rows {
		id := rowInt(row, "id")
		fk, ok := byID[id]
		if !ok {
			fk = &ForeignKey{
				Name:            fmt.Sprintf("fk_%s_%d", table, id),
				ReferencedTable: rowString(row, "table"),
				OnUpdate:        rowString(row, "on_update"),
				OnDelete:        rowString(row, "on_delete"),
			}
			byID[id] = fk
			order = append(order, id)
		}
		fk.Columns = append(fk.Columns, rowString(row, "from"))
		fk.ReferencedColumns = append(fk.ReferencedColumns, rowString(row, "to"))
	}
	fks := make([]ForeignKey, 0, len(order))
	for _, id := range order {
		fks = append(fks, *byID[id])
	}
	return fks, nil
}
