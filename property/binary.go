package property

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"unique"
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Layout: uvarint entry count, then per entry a uvarint key length, the key
// bytes and a tagged value. Keys are written in sorted order.
func (m Map) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, 4+len(m)*16))
}

// AppendBinary appends the encoding of m to buf.
func (m Map) AppendBinary(buf []byte) ([]byte, error) {
	buf = binary.AppendUvarint(buf, uint64(len(m)))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		buf = binary.AppendUvarint(buf, uint64(len(k)))
		buf = append(buf, k...)

		var err error
		buf, err = appendValue(buf, m[k], 0)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The whole buffer must be consumed.
func (m *Map) UnmarshalBinary(data []byte) error {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return invalid("bad entry count")
	}
	data = data[n:]

	// Every entry needs at least two bytes.
	if count > uint64(len(data)) {
		return invalid("entry count %d exceeds buffer", count)
	}

	out := make(Map, count)
	for range count {
		kLen, n := binary.Uvarint(data)
		if n <= 0 {
			return invalid("bad key length")
		}
		data = data[n:]
		if uint64(len(data)) < kLen {
			return invalid("short buffer for key")
		}
		key := string(data[:kLen])
		data = data[kLen:]

		val, remaining, err := parseValue(data, 0)
		if err != nil {
			return err
		}
		out[key] = val
		data = remaining
	}
	if len(data) != 0 {
		return invalid("%d trailing bytes", len(data))
	}

	*m = out
	return nil
}

// MaxListDepth is the deepest list nesting the codec accepts.
const MaxListDepth = 32

func appendValue(buf []byte, v Value, depth int) ([]byte, error) {
	buf = append(buf, byte(v.Kind))

	switch v.Kind {
	case KindNull:
	case KindInt:
		buf = binary.AppendVarint(buf, v.I64)
	case KindFloat:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.F64))
	case KindString:
		s := v.s.Value()
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindList:
		if depth >= MaxListDepth {
			return nil, fmt.Errorf("%w: lists nested deeper than %d", ErrUnsupportedType, MaxListDepth)
		}
		if err := checkHomogeneous(v.L); err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(len(v.L)))
		for _, item := range v.L {
			var err error
			buf, err = appendValue(buf, item, depth+1)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, invalid("unknown kind %d", v.Kind)
	}
	return buf, nil
}

func parseValue(data []byte, depth int) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, invalid("short buffer for value kind")
	}
	v := Value{Kind: Kind(data[0])}
	data = data[1:]

	switch v.Kind {
	case KindNull:
	case KindInt:
		i, n := binary.Varint(data)
		if n <= 0 {
			return v, nil, invalid("bad int value")
		}
		v.I64 = i
		data = data[n:]
	case KindFloat:
		if len(data) < 8 {
			return v, nil, invalid("short buffer for float")
		}
		v.F64 = math.Float64frombits(binary.LittleEndian.Uint64(data))
		data = data[8:]
	case KindString:
		sLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, invalid("bad string length")
		}
		data = data[n:]
		if uint64(len(data)) < sLen {
			return v, nil, invalid("short buffer for string")
		}
		v.s = unique.Make(string(data[:sLen]))
		data = data[sLen:]
	case KindBool:
		if len(data) == 0 {
			return v, nil, invalid("short buffer for bool")
		}
		v.B = data[0] != 0
		data = data[1:]
	case KindList:
		if depth >= MaxListDepth {
			return v, nil, invalid("lists nested deeper than %d", MaxListDepth)
		}
		lLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, invalid("bad list length")
		}
		data = data[n:]
		if lLen > uint64(len(data)) {
			return v, nil, invalid("list length %d exceeds buffer", lLen)
		}
		v.L = make([]Value, lLen)
		for i := range v.L {
			item, remaining, err := parseValue(data, depth+1)
			if err != nil {
				return v, nil, err
			}
			v.L[i] = item
			data = remaining
		}
		if err := checkHomogeneous(v.L); err != nil {
			return v, nil, invalid("%v", err)
		}
	default:
		return v, nil, invalid("unknown kind %d", v.Kind)
	}
	return v, data, nil
}
