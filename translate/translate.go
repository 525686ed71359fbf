// Package translate assembles finished SQL text from a mixed argument
// sequence: trusted literal fragments interleaved with typed parameter
// values, rendered through the active dialect. Fragments may contain
// :name: tokens resolved against an explicit substitution table. All
// failures are detected before anything reaches the engine; partially
// escaped SQL is never produced.
package translate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dbal-go/dbal"
	"github.com/dbal-go/dbal/dialect"
	"github.com/dbal-go/dbal/param"
)

// substitutionPattern matches :name: tokens inside literal fragments.
var substitutionPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*):`)

// typedArg carries a raw value together with an explicit kind modifier.
type typedArg struct {
	kind  param.Kind
	value interface{}
}

// Typed tags a raw value with an explicit parameter kind. The value is
// checked against the kind during translation; a mismatch is a translation
// error, never a best-effort coercion.
func Typed(kind param.Kind, value interface{}) interface{} {
	return typedArg{kind: kind, value: value}
}

// Translator owns the substitution table and the active dialect. It is not
// safe for concurrent use; each connection owns its own.
type Translator struct {
	dialect dialect.Dialect
	subs    map[string]string
}

// New returns a translator for the given dialect with an empty
// substitution table.
func New(d dialect.Dialect) *Translator {
	return &Translator{dialect: d, subs: make(map[string]string)}
}

// Dialect returns the active dialect.
func (t *Translator) Dialect() dialect.Dialect { return t.dialect }

// Substitute adds or replaces a substitution-table entry. Lookup during
// translation is exact-key only.
func (t *Translator) Substitute(name, replacement string) {
	t.subs[name] = replacement
}

// RemoveSubstitution deletes a substitution-table entry.
func (t *Translator) RemoveSubstitution(name string) {
	delete(t.subs, name)
}

// Translate scans args left to right and concatenates literal fragments
// with dialect-rendered parameter values, preserving order exactly.
// Strings are trusted SQL fragments; everything else is a value rendered
// through its explicit or inferred kind.
func (t *Translator) Translate(args ...interface{}) (string, error) {
	var b strings.Builder
	for i, arg := range args {
		if fragment, ok := arg.(string); ok {
			expanded, err := t.expand(i, fragment)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			continue
		}
		value, err := t.bind(i, arg)
		if err != nil {
			return "", err
		}
		rendered, err := dialect.Render(t.dialect, value)
		if err != nil {
			if dbal.IsCapability(err) {
				return "", err
			}
			return "", &dbal.TranslationError{Position: i, Value: arg, Message: err.Error()}
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

// expand resolves :name: tokens in one literal fragment. An unresolved
// name is a usage error reported here, not silently dropped or passed
// through to the engine.
func (t *Translator) expand(pos int, fragment string) (string, error) {
	var missing string
	expanded := substitutionPattern.ReplaceAllStringFunc(fragment, func(token string) string {
		name := token[1 : len(token)-1]
		if replacement, ok := t.subs[name]; ok {
			return replacement
		}
		if missing == "" {
			missing = token
		}
		return token
	})
	if missing != "" {
		return "", &dbal.TranslationError{
			Position: pos,
			Value:    missing,
			Message:  fmt.Sprintf("unresolved substitution %s", missing),
		}
	}
	return expanded, nil
}

// bind turns one non-fragment argument into a parameter value, applying
// the explicit kind of a Typed wrapper or inferring one from the Go type.
func (t *Translator) bind(pos int, arg interface{}) (param.Value, error) {
	switch a := arg.(type) {
	case nil:
		return param.NewNull(param.Text), nil
	case param.Value:
		if err := checkStructural(pos, a); err != nil {
			return param.Value{}, err
		}
		return a, nil
	case typedArg:
		return t.coerce(pos, a.kind, a.value)
	case bool:
		return param.NewBool(a), nil
	case int:
		return param.NewInt(int64(a)), nil
	case int8:
		return param.NewInt(int64(a)), nil
	case int16:
		return param.NewInt(int64(a)), nil
	case int32:
		return param.NewInt(int64(a)), nil
	case int64:
		return param.NewInt(a), nil
	case uint:
		return param.NewInt(int64(a)), nil
	case uint32:
		return param.NewInt(int64(a)), nil
	case time.Time:
		return param.NewDateTime(a), nil
	case time.Duration:
		return param.NewInterval(a), nil
	case []byte:
		return param.NewBinary(a), nil
	case float64, float32:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    arg,
			Message:  "floating-point values need an explicit numeric(precision,scale) parameter",
		}
	default:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    arg,
			Message:  fmt.Sprintf("cannot infer a parameter kind for %T", arg),
		}
	}
}

// coerce checks a raw value against an explicit kind modifier.
func (t *Translator) coerce(pos int, kind param.Kind, value interface{}) (param.Value, error) {
	mismatch := func(want string) (param.Value, error) {
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    value,
			Message:  fmt.Sprintf("%s parameter requires %s, got %T", kind, want, value),
		}
	}
	if value == nil {
		return param.NewNull(kind), nil
	}
	switch kind {
	case param.Text:
		s, ok := value.(string)
		if !ok {
			return mismatch("a string")
		}
		return param.NewText(s), nil
	case param.ASCIIText:
		s, ok := value.(string)
		if !ok {
			return mismatch("a string")
		}
		return param.NewASCII(s), nil
	case param.Identifier:
		s, ok := value.(string)
		if !ok {
			return mismatch("a string")
		}
		return param.NewIdentifier(s), nil
	case param.Int:
		switch n := value.(type) {
		case int:
			return param.NewInt(int64(n)), nil
		case int32:
			return param.NewInt(int64(n)), nil
		case int64:
			return param.NewInt(n), nil
		default:
			return mismatch("an integer")
		}
	case param.Numeric:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    value,
			Message:  "numeric parameters carry precision and scale; construct one with param.NewNumeric",
		}
	case param.Bool:
		b, ok := value.(bool)
		if !ok {
			return mismatch("a bool")
		}
		return param.NewBool(b), nil
	case param.Date:
		tv, err := timeValue(value)
		if err != nil {
			return mismatch("a time.Time or ISO date string")
		}
		return param.NewDate(tv), nil
	case param.DateTime:
		tv, err := timeValue(value)
		if err != nil {
			return mismatch("a time.Time or ISO datetime string")
		}
		return param.NewDateTime(tv), nil
	case param.Interval:
		switch d := value.(type) {
		case time.Duration:
			return param.NewInterval(d), nil
		case int:
			return param.NewInterval(time.Duration(d) * time.Second), nil
		case int64:
			return param.NewInterval(time.Duration(d) * time.Second), nil
		default:
			return mismatch("a time.Duration or seconds count")
		}
	case param.Binary:
		switch b := value.(type) {
		case []byte:
			return param.NewBinary(b), nil
		case string:
			return param.NewBinary([]byte(b)), nil
		default:
			return mismatch("bytes")
		}
	case param.ValueList:
		return t.coerceList(pos, value)
	case param.IdentifierList:
		names, ok := value.([]string)
		if !ok {
			return mismatch("a []string of identifiers")
		}
		v := param.NewIdentifierList(names...)
		if err := checkStructural(pos, v); err != nil {
			return param.Value{}, err
		}
		return v, nil
	case param.SetPairs:
		return t.coercePairs(pos, value)
	default:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    value,
			Message:  fmt.Sprintf("unknown parameter kind %s", kind),
		}
	}
}

// coerceList builds a value list from a Go slice, routing each element
// through inference. Inside a list, strings are values, not fragments.
func (t *Translator) coerceList(pos int, value interface{}) (param.Value, error) {
	var elems []param.Value
	appendElem := func(raw interface{}) error {
		if s, ok := raw.(string); ok {
			elems = append(elems, param.NewText(s))
			return nil
		}
		v, err := t.bind(pos, raw)
		if err != nil {
			return err
		}
		elems = append(elems, v)
		return nil
	}
	switch list := value.(type) {
	case []param.Value:
		elems = append(elems, list...)
	case []interface{}:
		for _, raw := range list {
			if err := appendElem(raw); err != nil {
				return param.Value{}, err
			}
		}
	case []string:
		for _, s := range list {
			elems = append(elems, param.NewText(s))
		}
	case []int:
		for _, n := range list {
			elems = append(elems, param.NewInt(int64(n)))
		}
	case []int64:
		for _, n := range list {
			elems = append(elems, param.NewInt(n))
		}
	default:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    value,
			Message:  fmt.Sprintf("value list parameter requires a slice, got %T", value),
		}
	}
	v := param.NewList(elems...)
	if err := checkStructural(pos, v); err != nil {
		return param.Value{}, err
	}
	return v, nil
}

// coercePairs builds a SET-clause assignment list. Map input is ordered by
// column name so the output is deterministic.
func (t *Translator) coercePairs(pos int, value interface{}) (param.Value, error) {
	switch m := value.(type) {
	case []param.Pair:
		v := param.NewSetPairs(m...)
		if err := checkStructural(pos, v); err != nil {
			return param.Value{}, err
		}
		return v, nil
	case map[string]interface{}:
		cols := make([]string, 0, len(m))
		for col := range m {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		pairs := make([]param.Pair, 0, len(cols))
		for _, col := range cols {
			raw := m[col]
			var v param.Value
			if s, ok := raw.(string); ok {
				v = param.NewText(s)
			} else {
				bound, err := t.bind(pos, raw)
				if err != nil {
					return param.Value{}, err
				}
				v = bound
			}
			pairs = append(pairs, param.Pair{Column: col, Value: v})
		}
		sv := param.NewSetPairs(pairs...)
		if err := checkStructural(pos, sv); err != nil {
			return param.Value{}, err
		}
		return sv, nil
	default:
		return param.Value{}, &dbal.TranslationError{
			Position: pos,
			Value:    value,
			Message:  fmt.Sprintf("set pairs parameter requires a map or []param.Pair, got %T", value),
		}
	}
}

// checkStructural rejects empty structural lists. An empty IN-list has no
// defined rendering; the caller must detect the condition and short-circuit
// instead.
func checkStructural(pos int, v param.Value) error {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case param.ValueList, param.IdentifierList:
		if len(v.List()) == 0 {
			return &dbal.TranslationError{
				Position: pos,
				Message:  fmt.Sprintf("empty %s", v.Kind()),
			}
		}
	case param.SetPairs:
		if len(v.Pairs()) == 0 {
			return &dbal.TranslationError{
				Position: pos,
				Message:  "empty set pairs",
			}
		}
	}
	return nil
}

// timeValue accepts a time.Time or an ISO-formatted string.
func timeValue(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("translate: %q is not an ISO date or datetime", v)
	default:
		return time.Time{}, fmt.Errorf("translate: %T is not a time value", value)
	}
}
