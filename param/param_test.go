package param

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	when := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value Value
		kind  Kind
	}{
		{"text", NewText("O'Brien"), Text},
		{"ascii", NewASCII("café"), ASCIIText},
		{"identifier", NewIdentifier("users"), Identifier},
		{"int", NewInt(42), Int},
		{"bool", NewBool(true), Bool},
		{"date", NewDate(when), Date},
		{"datetime", NewDateTime(when), DateTime},
		{"interval", NewInterval(90 * time.Second), Interval},
		{"binary", NewBinary([]byte{0xde, 0xad}), Binary},
		{"list", NewList(NewInt(1), NewInt(2)), ValueList},
		{"identifier list", NewIdentifierList("a", "b"), IdentifierList},
		{"set pairs", NewSetPairs(Pair{Column: "name", Value: NewText("x")}), SetPairs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.False(t, tt.value.IsNull())
		})
	}
}

func TestNewNull(t *testing.T) {
	for _, kind := range []Kind{Text, Int, Date, Binary} {
		v := NewNull(kind)
		assert.Equal(t, kind, v.Kind())
		assert.True(t, v.IsNull())
	}
}

func TestNewNumeric(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		precision int
		scale     int
		wantErr   bool
	}{
		{"float in range", 123.45, 5, 2, false},
		{"int payload", 99, 4, 1, false},
		{"string payload", "12.5", 4, 2, false},
		{"negative in range", -99.99, 4, 2, false},
		{"overflows precision", 1234.5, 4, 2, true},
		{"non-numeric string", "abc", 5, 2, true},
		{"unsupported payload", []int{1}, 5, 2, true},
		{"zero precision", 1.0, 0, 0, true},
		{"scale above precision", 1.0, 2, 3, true},
		{"negative scale", 1.0, 5, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewNumeric(tt.value, tt.precision, tt.scale)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Numeric, v.Kind())
			_, precision, scale := v.Numeric()
			assert.Equal(t, tt.precision, precision)
			assert.Equal(t, tt.scale, scale)
		})
	}
}

func TestBinaryOwnership(t *testing.T) {
	payload := []byte{1, 2, 3}
	v := NewBinary(payload)

	payload[0] = 99
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())

	got := v.Bytes()
	got[1] = 99
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "value list", ValueList.String())
	assert.Equal(t, "set pairs", SetPairs.String())
	assert.Contains(t, Kind(99).String(), "99")
}

func TestAccessors(t *testing.T) {
	when := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "hi", NewText("hi").Text())
	assert.Equal(t, int64(-7), NewInt(-7).Int())
	assert.True(t, NewBool(true).Bool())
	assert.Equal(t, when, NewDateTime(when).Time())
	assert.Equal(t, time.Minute, NewInterval(time.Minute).Duration())
	assert.Len(t, NewList(NewInt(1), NewInt(2), NewInt(3)).List(), 3)
	assert.Len(t, NewSetPairs(Pair{Column: "a", Value: NewInt(1)}).Pairs(), 1)
}
