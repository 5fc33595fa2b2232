package binrec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustValidate builds an instance or fails the test.
func mustValidate(t *testing.T, s *RecordSchema, values map[string]any) Instance {
	t.Helper()
	inst, err := s.Validate(values)
	require.NoError(t, err)
	return inst
}

// TestPackScalarsAndString reproduces the canonical scalar layout:
// {a: u32, b: i8, c: str[8]} big-endian.
func TestPackScalarsAndString(t *testing.T) {
	schema := NewRecordSchema("msg", U32("a"), I8("b"), Str("c", 8))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 13, rec.Width())

	inst := mustValidate(t, schema, map[string]any{"a": 0x56, "b": 5, "c": "Hello"})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x56,
		0x05,
		0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x00, 0x00, 0x00,
	}, data)
}

// TestPackPadding checks that padding bytes are written as zeros with no
// value consumed.
func TestPackPadding(t *testing.T) {
	schema := NewRecordSchema("p", U8("x"), Pad("pad", 10), U8("y"))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 12, rec.Width())

	inst := mustValidate(t, schema, map[string]any{"x": 1, "y": 2})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x02,
	}, data)
}

// TestPackStringTruncation checks silent truncation at the byte
// reservation, and the strict override.
func TestPackStringTruncation(t *testing.T) {
	schema := NewRecordSchema("s", Str("name", 4))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)

	inst := mustValidate(t, schema, map[string]any{"name": "overflow"})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte("over"), data)

	strict := NewRecordSchema("s", Str("name", 4).StrictLength())
	recStrict, err := Compile(strict, BigEndian)
	require.NoError(t, err)

	instStrict := mustValidate(t, strict, map[string]any{"name": "overflow"})
	_, err = recStrict.Pack(instStrict)
	require.ErrorIs(t, err, ErrBytesOverflow)
}

// TestPackStringMultibyteTruncation checks that byte truncation may split a
// codepoint; no correction is attempted.
func TestPackStringMultibyteTruncation(t *testing.T) {
	schema := NewRecordSchema("s", Str("name", 4))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)

	// "néé" is three characters but five encoded bytes.
	inst := mustValidate(t, schema, map[string]any{"name": "néé"})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	// The second é (0xC3 0xA9) is split after its first byte.
	require.Equal(t, []byte{'n', 0xC3, 0xA9, 0xC3}, data)
}

// TestPackBytes checks zero padding and the overflow error.
func TestPackBytes(t *testing.T) {
	schema := NewRecordSchema("b", Bytes("raw", 4))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)

	inst := mustValidate(t, schema, map[string]any{"raw": []byte{0xAA, 0xBB}})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0x00, 0x00}, data)

	long := mustValidate(t, schema, map[string]any{"raw": []byte{1, 2, 3, 4, 5}})
	_, err = rec.Pack(long)
	require.ErrorIs(t, err, ErrBytesOverflow)
}

// TestPackArrayFillers covers the filler policies on short input.
func TestPackArrayFillers(t *testing.T) {
	tests := []struct {
		name    string
		field   FieldSpec
		values  map[string]any
		want    []byte
		wantErr error
	}{
		{
			name:   "value filler tops up",
			field:  Array("arr", U8(""), 5).WithFiller(0),
			values: map[string]any{"arr": []any{1, 2, 3}},
			want:   []byte{0x01, 0x02, 0x03, 0x00, 0x00},
		},
		{
			name:   "nonzero value filler",
			field:  Array("arr", U8(""), 4).WithFiller(0xFF),
			values: map[string]any{"arr": []any{7}},
			want:   []byte{0x07, 0xFF, 0xFF, 0xFF},
		},
		{
			name:   "default filler is the element zero",
			field:  Array("arr", U16(""), 3).WithDefaultFiller(),
			values: map[string]any{"arr": []any{0x0102}},
			want:   []byte{0x01, 0x02, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:   "func filler",
			field:  Array("arr", U8(""), 3).WithFillerFunc(func() any { return uint8(9) }),
			values: map[string]any{"arr": []any{1}},
			want:   []byte{0x01, 0x09, 0x09},
		},
		{
			name:    "no filler underflows",
			field:   Array("arr", U8(""), 5),
			values:  map[string]any{"arr": []any{1, 2, 3}},
			wantErr: ErrArrayUnderflow,
		},
		{
			name:    "overflow regardless of filler",
			field:   Array("arr", U8(""), 2).WithFiller(0),
			values:  map[string]any{"arr": []any{1, 2, 3}},
			wantErr: ErrArrayOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := NewRecordSchema("a", tt.field)
			rec, err := Compile(schema, BigEndian)
			require.NoError(t, err)

			inst := mustValidate(t, schema, tt.values)
			data, err := rec.Pack(inst)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, data)
		})
	}
}

// TestPackTypedSlice checks that typed element slices are accepted.
func TestPackTypedSlice(t *testing.T) {
	schema := NewRecordSchema("a", Array("arr", U16(""), 3))
	rec, err := Compile(schema, LittleEndian)
	require.NoError(t, err)

	inst := mustValidate(t, schema, map[string]any{"arr": []uint16{1, 2, 3}})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}, data)
}

// TestPackNested checks recursive packing of a nested record.
func TestPackNested(t *testing.T) {
	point := NewRecordSchema("point", I16("x"), I16("y"))
	schema := NewRecordSchema("line", Nested("from", point), Nested("to", point))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 8, rec.Width())

	inst := mustValidate(t, schema, map[string]any{
		"from": map[string]any{"x": 1, "y": -1},
		"to":   map[string]any{"x": 256, "y": 2},
	})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x00, 0x01, 0xFF, 0xFF,
		0x01, 0x00, 0x00, 0x02,
	}, data)
}

// TestPackOutlet checks that the computed provider supplies the slot value
// under the stem name.
func TestPackOutlet(t *testing.T) {
	schema := NewRecordSchema("t", U8("a"), U8("b"), Outlet("sum_outlet", KindU16))
	schema.DefineComputed("sum", KindU16, func(inst Instance) (any, error) {
		a, _ := inst.Get("a")
		b, _ := inst.Get("b")
		return uint16(a.(uint8)) + uint16(b.(uint8)), nil
	})

	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 4, rec.Width())

	inst := mustValidate(t, schema, map[string]any{"a": 3, "b": 4})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x04, 0x00, 0x07}, data)
}

// TestPackWidthStability checks len(Pack(x)) == Width() across shapes.
func TestPackWidthStability(t *testing.T) {
	point := NewRecordSchema("point", I16("x"), I16("y"))
	schema := NewRecordSchema("t",
		U32("id"),
		Str("label", 6),
		Array("data", U8(""), 4).WithFiller(0),
		Nested("origin", point),
		Pad("tail", 3),
	)
	rec, err := Compile(schema, LittleEndian)
	require.NoError(t, err)

	inst := mustValidate(t, schema, map[string]any{
		"id":     9,
		"label":  "ab",
		"data":   []any{1},
		"origin": map[string]any{"x": 0, "y": 0},
	})
	data, err := rec.Pack(inst)
	require.NoError(t, err)
	require.Len(t, data, rec.Width())
}

// TestPackIntegerRange checks that an unvalidated out-of-range value is
// still caught by the packer itself.
func TestPackIntegerRange(t *testing.T) {
	schema := NewRecordSchema("t", U8("n"))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)

	// Bypass Validate to hit the codec-level check.
	inst := &RecordValue{schema: schema, values: map[string]any{"n": 278}}
	_, err = rec.Pack(inst)
	require.ErrorIs(t, err, ErrIntegerRange)
}
