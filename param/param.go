// Package param defines the tagged parameter values the translation layer
// renders into dialect-correct SQL literals. A Value carries a semantic
// kind fixed at construction plus the raw payload; it has no behavior of
// its own beyond identity and is consumed once by the active dialect.
package param

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the semantic kind of a parameter value. It decides which dialect
// rendering rule applies.
type Kind int

const (
	// Text is a character string rendered with dialect quoting.
	Text Kind = iota
	// ASCIIText is a character string restricted to 7-bit characters.
	ASCIIText
	// Identifier is a table or column name rendered with identifier quoting.
	Identifier
	// Int is an integer rendered unquoted.
	Int
	// Numeric is a fixed-point number with precision and scale.
	Numeric
	// Bool is rendered as the dialect's truthy or falsy literal.
	Bool
	// Date is a calendar date without time of day.
	Date
	// DateTime is a date with time of day.
	DateTime
	// Interval is a duration added to or subtracted from a date.
	Interval
	// Binary is a raw byte string.
	Binary
	// ValueList is a parenthesized comma-separated list, e.g. for IN.
	ValueList
	// IdentifierList is a comma-separated list of identifiers.
	IdentifierList
	// SetPairs is a comma-separated list of column = value assignments.
	SetPairs
)

var kindNames = map[Kind]string{
	Text:           "text",
	ASCIIText:      "ascii-text",
	Identifier:     "identifier",
	Int:            "integer",
	Numeric:        "numeric",
	Bool:           "boolean",
	Date:           "date",
	DateTime:       "datetime",
	Interval:       "interval",
	Binary:         "binary",
	ValueList:      "value list",
	IdentifierList: "identifier list",
	SetPairs:       "set pairs",
}

// String returns the kind name used in error messages.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Pair is one column = value assignment inside a SetPairs value.
type Pair struct {
	Column string
	Value  Value
}

// Value is an immutable tagged parameter value. The zero Value is a NULL
// text parameter.
type Value struct {
	kind  Kind
	null  bool
	text  string
	num   int64
	dec   float64
	prec  int
	scale int
	b     bool
	t     time.Time
	d     time.Duration
	raw   []byte
	list  []Value
	pairs []Pair
}

// NewText returns a text value.
func NewText(s string) Value { return Value{kind: Text, text: s} }

// NewASCII returns an ascii-text value. Characters outside the 7-bit range
// are dropped when rendered.
func NewASCII(s string) Value { return Value{kind: ASCIIText, text: s} }

// NewIdentifier returns an identifier value.
func NewIdentifier(name string) Value { return Value{kind: Identifier, text: name} }

// NewInt returns an integer value.
func NewInt(i int64) Value { return Value{kind: Int, num: i} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewDate returns a date value. The time of day is discarded at rendering.
func NewDate(t time.Time) Value { return Value{kind: Date, t: t} }

// NewDateTime returns a datetime value.
func NewDateTime(t time.Time) Value { return Value{kind: DateTime, t: t} }

// NewInterval returns a date-interval value.
func NewInterval(d time.Duration) Value { return Value{kind: Interval, d: d} }

// NewBinary returns a binary value. The payload is copied; the caller keeps
// ownership of b.
func NewBinary(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: Binary, raw: cp}
}

// NewNumeric returns a fixed-point numeric value with the given precision
// (total significant digits) and scale (digits after the decimal point).
// The payload must be representable within precision digits; arbitrary text
// is rejected, never coerced.
func NewNumeric(v interface{}, precision, scale int) (Value, error) {
	if precision <= 0 || scale < 0 || scale > precision {
		return Value{}, fmt.Errorf("param: invalid numeric(%d,%d)", precision, scale)
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return Value{}, fmt.Errorf("param: %q is not numeric", n)
		}
		f = parsed
	default:
		return Value{}, fmt.Errorf("param: %T is not numeric", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("param: %v is not a finite number", f)
	}
	intDigits := precision - scale
	if math.Abs(f) >= math.Pow(10, float64(intDigits)) {
		return Value{}, fmt.Errorf("param: %v overflows numeric(%d,%d)", f, precision, scale)
	}
	return Value{kind: Numeric, dec: f, prec: precision, scale: scale}, nil
}

// NewNull returns a NULL value of the given kind. It renders to the
// dialect's NULL literal, never to an empty quoted string.
func NewNull(kind Kind) Value { return Value{kind: kind, null: true} }

// NewList returns a value list. Emptiness is a structural condition checked
// by the translator, not here.
func NewList(vals ...Value) Value {
	cp := make([]Value, len(vals))
	copy(cp, vals)
	return Value{kind: ValueList, list: cp}
}

// NewIdentifierList returns an identifier list.
func NewIdentifierList(names ...string) Value {
	vals := make([]Value, len(names))
	for i, n := range names {
		vals[i] = NewIdentifier(n)
	}
	return Value{kind: IdentifierList, list: vals}
}

// NewSetPairs returns a SET-clause assignment list.
func NewSetPairs(pairs ...Pair) Value {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Value{kind: SetPairs, pairs: cp}
}

// Kind returns the value's semantic kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value renders as NULL.
func (v Value) IsNull() bool { return v.null }

// Text returns the string payload of text, ascii-text, and identifier values.
func (v Value) Text() string { return v.text }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.num }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Time returns the payload of date and datetime values.
func (v Value) Time() time.Time { return v.t }

// Duration returns the payload of interval values.
func (v Value) Duration() time.Duration { return v.d }

// Bytes returns the payload of binary values. The returned slice is a copy.
func (v Value) Bytes() []byte {
	cp := make([]byte, len(v.raw))
	copy(cp, v.raw)
	return cp
}

// Numeric returns the payload, precision, and scale of numeric values.
func (v Value) Numeric() (value float64, precision, scale int) {
	return v.dec, v.prec, v.scale
}

// List returns the elements of list values.
func (v Value) List() []Value { return v.list }

// Pairs returns the assignments of SetPairs values.
func (v Value) Pairs() []Pair { return v.pairs }
