package binrec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/scigolib/binrec/internal/utils"
)

// primCodec is one entry of the primitive codec table: a fixed byte width
// plus encode/decode steps for a single value. The byte order comes from the
// record; the string codec only matters for KindChar.
type primCodec struct {
	width int
	put   func(bo binary.ByteOrder, sc *strCodec, out []byte, v any) error
	get   func(bo binary.ByteOrder, sc *strCodec, in []byte) (any, error)
}

// primCodecs is the static catalog of primitive kinds. Bool encodes as one
// byte, 0x00 for false and 0x01 for true; any nonzero byte decodes to true.
// Char is exactly one byte in the field's string encoding.
var primCodecs = map[Kind]primCodec{
	KindU8:  uintCodec(1),
	KindU16: uintCodec(2),
	KindU32: uintCodec(4),
	KindU64: uintCodec(8),
	KindI8:  intCodec(1),
	KindI16: intCodec(2),
	KindI32: intCodec(4),
	KindI64: intCodec(8),
	KindF32: {
		width: 4,
		put: func(bo binary.ByteOrder, _ *strCodec, out []byte, v any) error {
			f, err := toFloat64(v)
			if err != nil {
				return err
			}
			bo.PutUint32(out, math.Float32bits(float32(f)))
			return nil
		},
		get: func(bo binary.ByteOrder, _ *strCodec, in []byte) (any, error) {
			return math.Float32frombits(bo.Uint32(in)), nil
		},
	},
	KindF64: {
		width: 8,
		put: func(bo binary.ByteOrder, _ *strCodec, out []byte, v any) error {
			f, err := toFloat64(v)
			if err != nil {
				return err
			}
			bo.PutUint64(out, math.Float64bits(f))
			return nil
		},
		get: func(bo binary.ByteOrder, _ *strCodec, in []byte) (any, error) {
			return math.Float64frombits(bo.Uint64(in)), nil
		},
	},
	KindBool: {
		width: 1,
		put: func(_ binary.ByteOrder, _ *strCodec, out []byte, v any) error {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("cannot encode %T as bool", v)
			}
			if b {
				out[0] = 0x01
			} else {
				out[0] = 0x00
			}
			return nil
		},
		get: func(_ binary.ByteOrder, _ *strCodec, in []byte) (any, error) {
			return in[0] != 0, nil
		},
	},
	KindChar: {
		width: 1,
		put: func(_ binary.ByteOrder, sc *strCodec, out []byte, v any) error {
			s, err := charString(v)
			if err != nil {
				return err
			}
			enc, err := sc.encode(s)
			if err != nil || len(enc) != 1 {
				return fmt.Errorf("%q in %s: %w", s, sc.name, ErrCharEncoding)
			}
			out[0] = enc[0]
			return nil
		},
		get: func(_ binary.ByteOrder, sc *strCodec, in []byte) (any, error) {
			s, err := sc.decode(in[:1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStringDecode, err)
			}
			return s, nil
		},
	},
}

// uintCodec builds the table entry for an unsigned integer of the given
// byte width. Bounds are enforced before encoding.
func uintCodec(width int) primCodec {
	return primCodec{
		width: width,
		put: func(bo binary.ByteOrder, _ *strCodec, out []byte, v any) error {
			u, err := toUint64(v)
			if err != nil {
				return err
			}
			if err := utils.CheckUintRange(u, width); err != nil {
				return fmt.Errorf("%w: %v", ErrIntegerRange, err)
			}
			putUint(bo, out, u, width)
			return nil
		},
		get: func(bo binary.ByteOrder, _ *strCodec, in []byte) (any, error) {
			u := readUint(bo, in, width)
			switch width {
			case 1:
				return uint8(u), nil
			case 2:
				return uint16(u), nil
			case 4:
				return uint32(u), nil
			default:
				return u, nil
			}
		},
	}
}

// intCodec builds the table entry for a signed two's-complement integer of
// the given byte width.
func intCodec(width int) primCodec {
	return primCodec{
		width: width,
		put: func(bo binary.ByteOrder, _ *strCodec, out []byte, v any) error {
			i, err := toInt64(v)
			if err != nil {
				return err
			}
			if err := utils.CheckIntRange(i, width); err != nil {
				return fmt.Errorf("%w: %v", ErrIntegerRange, err)
			}
			putUint(bo, out, uint64(i), width)
			return nil
		},
		get: func(bo binary.ByteOrder, _ *strCodec, in []byte) (any, error) {
			u := readUint(bo, in, width)
			switch width {
			case 1:
				return int8(u), nil
			case 2:
				return int16(u), nil
			case 4:
				return int32(u), nil
			default:
				return int64(u), nil
			}
		},
	}
}

// putUint writes the low width bytes of u in the given byte order.
func putUint(bo binary.ByteOrder, out []byte, u uint64, width int) {
	switch width {
	case 1:
		out[0] = byte(u)
	case 2:
		bo.PutUint16(out, uint16(u))
	case 4:
		bo.PutUint32(out, uint32(u))
	default:
		bo.PutUint64(out, u)
	}
}

// readUint reads width bytes in the given byte order.
func readUint(bo binary.ByteOrder, in []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(in[0])
	case 2:
		return uint64(bo.Uint16(in))
	case 4:
		return uint64(bo.Uint32(in))
	default:
		return bo.Uint64(in)
	}
}

// toUint64 coerces any Go integer value to uint64. Negative values map to
// ErrIntegerRange rather than a type error: the width check cannot see the
// sign once converted.
func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case int8:
		return checkedUint(int64(n))
	case int16:
		return checkedUint(int64(n))
	case int32:
		return checkedUint(int64(n))
	case int64:
		return checkedUint(n)
	case int:
		return checkedUint(int64(n))
	default:
		return 0, fmt.Errorf("cannot encode %T as unsigned integer", v)
	}
}

func checkedUint(n int64) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrIntegerRange, n)
	}
	return uint64(n), nil
}

// toInt64 coerces any Go integer value to int64.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d exceeds int64 maximum", ErrIntegerRange, n)
		}
		return int64(n), nil
	case uint:
		return toInt64(uint64(n))
	default:
		return 0, fmt.Errorf("cannot encode %T as signed integer", v)
	}
}

// toFloat64 coerces a numeric value to float64. Integers are accepted for
// convenience; the round-trip then yields the float form.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	}
	if i, err := toInt64(v); err == nil {
		return float64(i), nil
	}
	if u, err := toUint64(v); err == nil {
		return float64(u), nil
	}
	return 0, fmt.Errorf("cannot encode %T as float", v)
}

// charString normalizes a character value to a one-rune string.
func charString(v any) (string, error) {
	switch c := v.(type) {
	case string:
		if utf8.RuneCountInString(c) != 1 {
			return "", fmt.Errorf("%w: %q is not a single character", ErrCharEncoding, c)
		}
		return c, nil
	case rune:
		return string(c), nil
	case byte:
		return string(rune(c)), nil
	default:
		return "", fmt.Errorf("cannot encode %T as char", v)
	}
}
