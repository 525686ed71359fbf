package dbal

// Column describes one result or table column. It is the interchange shape
// between cursors, schema reflection, and any display or mapping layer.
type Column struct {
	// Name is the column name as reported by the engine.
	Name string

	// NativeType is the engine's own type name (e.g. "VARCHAR", "int8").
	NativeType string

	// Table is the owning table, when known.
	Table string

	// FullName is the table-qualified name, when known.
	FullName string

	// Size is the declared length or precision, 0 when not reported.
	Size int64

	// Nullable reports whether the column accepts NULL. Only meaningful
	// when HasNullable is true; some engines do not report it.
	Nullable bool

	// HasNullable reports whether Nullable was determined.
	HasNullable bool

	// DefaultValue is the column default expression, nil when absent.
	DefaultValue *string

	// AutoIncrement reports engine-side identity generation.
	AutoIncrement bool

	// Vendor carries engine-specific extras that have no portable slot.
	Vendor map[string]string
}
