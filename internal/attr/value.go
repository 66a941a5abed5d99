package attr

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNone marks an absent value.
	KindNone Kind = iota
	// KindNull is an explicit JSON null.
	KindNull
	// KindBool is true or false.
	KindBool
	// KindNumber is a float64.
	KindNumber
	// KindString is a string.
	KindString
	// KindMap is a nested map.
	KindMap
	// KindArray is an ordered list.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "none"
	}
}

// Value is a tagged union over the scalar and container kinds a Store can
// hold. The zero Value is absent.
type Value struct {
	r gjson.Result
}

// ValueOf converts a Go value into a Value by JSON-encoding it.
func ValueOf(v any) (Value, error) {
	if v == nil {
		return Value{}, nil
	}
	if val, ok := v.(Value); ok {
		return val, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("attr: encode %T: %w", v, err)
	}
	return Value{r: gjson.ParseBytes(data)}, nil
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	if !v.r.Exists() {
		return KindNone
	}
	switch v.r.Type {
	case gjson.Null:
		return KindNull
	case gjson.True, gjson.False:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	case gjson.JSON:
		if v.r.IsArray() {
			return KindArray
		}
		return KindMap
	}
	return KindNone
}

// Exists reports whether the value is present.
func (v Value) Exists() bool {
	return v.r.Exists()
}

// Raw returns the JSON text of the value, or "" when absent.
func (v Value) Raw() string {
	return v.r.Raw
}

// Float coerces the value to a number. Numeric strings are accepted.
func (v Value) Float() (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		return v.r.Num, true
	case KindString:
		f, err := strconv.ParseFloat(v.r.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Str coerces the value to a string. Numbers are formatted.
func (v Value) Str() (string, bool) {
	switch v.Kind() {
	case KindString:
		return v.r.Str, true
	case KindNumber:
		return strconv.FormatFloat(v.r.Num, 'f', -1, 64), true
	}
	return "", false
}

// Bool coerces the value to a boolean. "true" and "false" strings are accepted.
func (v Value) Bool() (bool, bool) {
	switch v.Kind() {
	case KindBool:
		return v.r.Bool(), true
	case KindString:
		b, err := strconv.ParseBool(v.r.Str)
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Array returns the elements of an array value, or nil for other kinds.
func (v Value) Array() []Value {
	if v.Kind() != KindArray {
		return nil
	}
	items := v.r.Array()
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = Value{r: it}
	}
	return out
}

// Get reads a nested path relative to this value.
func (v Value) Get(path string) Value {
	return Value{r: v.r.Get(path)}
}

// Interface returns the plain Go representation: map[string]any, []any,
// float64, string, bool or nil.
func (v Value) Interface() any {
	if !v.r.Exists() {
		return nil
	}
	return v.r.Value()
}

// Equal reports whether two values have identical JSON encodings.
func (v Value) Equal(o Value) bool {
	return v.r.Exists() == o.r.Exists() && v.r.Raw == o.r.Raw
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.r.Exists() {
		return "<none>"
	}
	return v.r.Raw
}
