package property

import (
	"maps"
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindList represents a homogeneous list value.
	KindList
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a small typed property value.
//
// NOTE: The binary form of Value is persisted in node records; keep it stable.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string]
	B    bool
	L    []Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// List returns a list Value. All items must share one kind.
func List(items ...Value) (Value, error) {
	if err := checkHomogeneous(items); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindList, L: items}, nil
}

// MustList is like List but panics on heterogeneous input.
func MustList(items ...Value) Value {
	v, err := List(items...)
	if err != nil {
		panic(err)
	}
	return v
}

func checkHomogeneous(items []Value) error {
	for i := 1; i < len(items); i++ {
		if items[i].Kind != items[0].Kind {
			return &HeterogeneousListError{Index: i, Want: items[0].Kind, Got: items[i].Kind}
		}
	}
	return nil
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsList returns the items if Kind is KindList.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.L, true
}

// Any converts v back into a plain Go value.
// Lists become []any.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindList:
		out := make([]any, len(v.L))
		for i := range v.L {
			out[i] = v.L[i].Any()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same kind and value.
// Floats compare by bit pattern so NaN equals itself.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.I64 == o.I64
	case KindFloat:
		return math.Float64bits(v.F64) == math.Float64bits(o.F64)
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.B == o.B
	case KindList:
		if len(v.L) != len(o.L) {
			return false
		}
		for i := range v.L {
			if !v.L[i].Equal(o.L[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns a human readable form of v.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s.Value())
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindList:
		parts := make([]string, len(v.L))
		for i := range v.L {
			parts[i] = v.L[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "invalid"
	}
}

func (v Value) clone() Value {
	if v.Kind != KindList || len(v.L) == 0 {
		return v
	}
	items := make([]Value, len(v.L))
	for i := range v.L {
		items[i] = v.L[i].clone()
	}
	return Value{Kind: KindList, L: items}
}

// Map is the property bag of a node.
type Map map[string]Value

// Clone creates a deep copy of the map, including nested lists.
func (m Map) Clone() Map {
	if m == nil {
		return Map{}
	}
	clone := make(Map, len(m))
	for k, v := range m {
		clone[k] = v.clone()
	}
	return clone
}

// Equal reports whether both maps hold the same keys and values.
func (m Map) Equal(o Map) bool {
	return maps.EqualFunc(m, o, Value.Equal)
}
