package robin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVector3
	KindArray
	KindObject
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindVector3:
		return "vector3"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged-union data currency shared between blackboards,
// events, and node parameters. Conversions are total: every As* accessor
// returns a defined fallback for non-matching variants and never panics.
//
// The zero Value is None.
type Value struct {
	kind ValueKind
	b    bool
	i    int
	f    float64
	vec  [3]float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// None returns the empty value.
func None() Value {
	return Value{}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int wraps an integer.
func Int(i int) Value {
	return Value{kind: KindInt, i: i}
}

// Float wraps a float.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Vector3 wraps a 3-component vector.
func Vector3(x, y, z float64) Value {
	return Value{kind: KindVector3, vec: [3]float64{x, y, z}}
}

// Array wraps a list of values.
func Array(values ...Value) Value {
	return Value{kind: KindArray, arr: values}
}

// Object wraps a string-keyed map of values.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNone reports whether the value is the None variant.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// AsBool converts to a boolean. None is false; numbers are true when
// non-zero; strings are true when non-empty; vectors are true when any
// component is non-zero; arrays and objects are true when non-empty.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindVector3:
		return v.vec[0] != 0 || v.vec[1] != 0 || v.vec[2] != 0
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	default:
		return false
	}
}

// AsInt converts to an integer. Floats truncate; parseable strings parse;
// everything else is 0 (or 1 for true booleans).
func (v Value) AsInt() int {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return v.i
	case KindFloat:
		return int(v.f)
	case KindString:
		if i, err := strconv.Atoi(strings.TrimSpace(v.s)); err == nil {
			return i
		}
		return 0
	default:
		return 0
	}
}

// AsFloat converts to a float. Parseable strings parse; everything else
// is 0 (or 1 for true booleans).
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// AsString converts to a display string. None renders as "none".
func (v Value) AsString() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindVector3:
		return fmt.Sprintf("(%g, %g, %g)", v.vec[0], v.vec[1], v.vec[2])
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, elem := range v.arr {
			parts[i] = elem.AsString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.obj[k].AsString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "none"
	}
}

// AsVector3 returns the vector components, or zeros for other variants.
func (v Value) AsVector3() [3]float64 {
	if v.kind == KindVector3 {
		return v.vec
	}
	return [3]float64{}
}

// AsArray returns the element slice, or nil for other variants.
// The returned slice is shared with the value; callers must not mutate it.
func (v Value) AsArray() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// AsObject returns the field map, or nil for other variants.
// The returned map is shared with the value; callers must not mutate it.
func (v Value) AsObject() map[string]Value {
	if v.kind == KindObject {
		return v.obj
	}
	return nil
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindVector3:
		return v.vec == other.vec
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, val := range v.obj {
			o, ok := other.obj[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.AsString()
}
