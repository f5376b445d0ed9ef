package property

import (
	"fmt"
	"math"
)

// FromAny converts a Go value into a typed Value.
//
// Supported inputs are nil, bool, string, all integer and float widths,
// Value, and slices of those. Slices must be homogeneous.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint64(x)
	case []Value:
		return List(x...)
	case []any:
		return listOf(x, FromAny)
	case []string:
		return listOf(x, func(s string) (Value, error) { return String(s), nil })
	case []int:
		return listOf(x, func(i int) (Value, error) { return Int(int64(i)), nil })
	case []int64:
		return listOf(x, func(i int64) (Value, error) { return Int(i), nil })
	case []float64:
		return listOf(x, func(f float64) (Value, error) { return Float(f), nil })
	case []bool:
		return listOf(x, func(b bool) (Value, error) { return Bool(b), nil })
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func fromUint64(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: uint64 %d out of range", ErrUnsupportedType, x)
	}
	return Int(int64(x)), nil
}

func listOf[T any](in []T, conv func(T) (Value, error)) (Value, error) {
	items := make([]Value, len(in))
	for i := range in {
		v, err := conv(in[i])
		if err != nil {
			return Value{}, err
		}
		items[i] = v
	}
	return List(items...)
}

// MapFromAny converts a map[string]any into a typed Map.
func MapFromAny(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = vv
	}
	return out, nil
}
