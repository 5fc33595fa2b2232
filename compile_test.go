package binrec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCompileWidths checks total width over the descriptor mix.
func TestCompileWidths(t *testing.T) {
	tests := []struct {
		name   string
		schema *RecordSchema
		want   int
	}{
		{
			name: "scenario A layout",
			schema: NewRecordSchema("a",
				U32("a"), I8("b"), Str("c", 8)),
			want: 13,
		},
		{
			name: "padding between scalars",
			schema: NewRecordSchema("p",
				U8("x"), Pad("pad", 10), U8("y")),
			want: 12,
		},
		{
			name: "array of u16",
			schema: NewRecordSchema("arr",
				Array("samples", U16(""), 5)),
			want: 10,
		},
		{
			name: "bytes and bool",
			schema: NewRecordSchema("bb",
				Bytes("raw", 7), Bool("flag")),
			want: 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Compile(tt.schema, BigEndian)
			require.NoError(t, err)
			require.Equal(t, tt.want, rec.Width())
		})
	}
}

// TestCompileErrors covers the compile-time error kinds.
func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema *RecordSchema
		want   error
	}{
		{
			name:   "str without length",
			schema: NewRecordSchema("t", FieldSpec{Name: "s", Kind: KindStr}),
			want:   ErrMissingLength,
		},
		{
			name:   "bytes without length",
			schema: NewRecordSchema("t", FieldSpec{Name: "b", Kind: KindBytes}),
			want:   ErrMissingLength,
		},
		{
			name:   "zero-length padding",
			schema: NewRecordSchema("t", Pad("pad", 0)),
			want:   ErrMissingLength,
		},
		{
			name:   "array without count",
			schema: NewRecordSchema("t", FieldSpec{Name: "a", Kind: KindArray, Elem: &FieldSpec{Kind: KindU8}}),
			want:   ErrMissingLength,
		},
		{
			name:   "array of padding",
			schema: NewRecordSchema("t", Array("a", Pad("", 4), 2)),
			want:   ErrUnknownKind,
		},
		{
			name:   "array of outlet",
			schema: NewRecordSchema("t", Array("a", FieldSpec{Kind: KindOutlet}, 2)),
			want:   ErrUnknownKind,
		},
		{
			name:   "unknown kind",
			schema: NewRecordSchema("t", FieldSpec{Name: "x", Kind: Kind(200)}),
			want:   ErrUnknownKind,
		},
		{
			name:   "outlet without provider",
			schema: NewRecordSchema("t", Outlet("crc_outlet", KindU32)),
			want:   ErrOutletMismatch,
		},
		{
			name: "outlet kind mismatch",
			schema: NewRecordSchema("t", Outlet("crc_outlet", KindU32)).
				DefineComputed("crc", KindU16, func(Instance) (any, error) { return uint16(0), nil }),
			want: ErrOutletMismatch,
		},
		{
			name: "outlet without suffix",
			schema: NewRecordSchema("t", FieldSpec{Name: "crc", Kind: KindOutlet, Elem: &FieldSpec{Kind: KindU32}}).
				DefineComputed("crc", KindU32, func(Instance) (any, error) { return uint32(0), nil }),
			want: ErrOutletMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.schema, BigEndian)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestCompileDuplicateFieldName checks the uniqueness invariant.
func TestCompileDuplicateFieldName(t *testing.T) {
	schema := NewRecordSchema("t", U8("x"), U16("x"))
	_, err := Compile(schema, BigEndian)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate field")
}

// TestCompileSkipsPrivateFields checks that underscore names are ignored.
func TestCompileSkipsPrivateFields(t *testing.T) {
	schema := NewRecordSchema("t", U8("x"), U32("_internal"), U8("y"))
	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 2, rec.Width())

	layout := rec.Layout()
	require.Len(t, layout, 2)
	require.Equal(t, "x", layout[0].Name)
	require.Equal(t, "y", layout[1].Name)
}

// TestCompileBaseFieldOrder checks the deterministic flattening: base
// fields first, in base declaration order, then the derived type's own.
func TestCompileBaseFieldOrder(t *testing.T) {
	header := NewRecordSchema("header", U8("version"), U16("length"))
	trailer := NewRecordSchema("trailer", U8("crc"))
	frame := NewRecordSchema("frame", U32("payload")).Embed(header, trailer)

	rec, err := Compile(frame, BigEndian)
	require.NoError(t, err)

	var names []string
	for _, fl := range rec.Layout() {
		names = append(names, fl.Name)
	}
	require.Equal(t, []string{"version", "length", "crc", "payload"}, names)
	require.Equal(t, 1+2+1+4, rec.Width())
}

// TestCompileOutlet checks a well-formed outlet declaration.
func TestCompileOutlet(t *testing.T) {
	schema := NewRecordSchema("t", U8("id"), Outlet("sum_outlet", KindU16)).
		DefineComputed("sum", KindU16, func(Instance) (any, error) { return uint16(0), nil })

	rec, err := Compile(schema, BigEndian)
	require.NoError(t, err)
	require.Equal(t, 3, rec.Width())
}

// TestCompileUnionWidth checks that a union is as wide as its widest
// member, regardless of member order.
func TestCompileUnionWidth(t *testing.T) {
	small := NewRecordSchema("small", U8("id"), U16("v"))
	large := NewRecordSchema("large", U8("id"), U64("v"), I8("w"))

	for _, members := range [][]Schema{{small, large}, {large, small}} {
		schema := NewRecordSchema("t", UnionOf("u", members...))
		rec, err := Compile(schema, BigEndian)
		require.NoError(t, err)
		require.Equal(t, 10, rec.Width())
	}
}

// TestCompileUnionDiscriminatorMissing checks the by-field requirement that
// the discriminator exists in every member.
func TestCompileUnionDiscriminatorMissing(t *testing.T) {
	a := NewRecordSchema("a", U8("id"), U16("v"))
	b := NewRecordSchema("b", U8("tag"), U16("v"))
	schema := NewRecordSchema("t", UnionOf("u", a, b).DiscriminateBy("id"))

	_, err := Compile(schema, BigEndian)
	require.ErrorIs(t, err, ErrDiscriminator)
}

// TestCompileNativeAligned checks ABI padding insertion and tail padding.
func TestCompileNativeAligned(t *testing.T) {
	schema := NewRecordSchema("t", U8("a"), U32("b"), U8("c"))

	rec, err := Compile(schema, NativeAligned)
	require.NoError(t, err)

	layout := rec.Layout()
	require.Equal(t, 0, layout[0].Offset)
	require.Equal(t, 4, layout[1].Offset) // aligned up from 1
	require.Equal(t, 8, layout[2].Offset)
	require.Equal(t, 12, rec.Width()) // tail-padded to the u32 alignment

	// The contiguous modes pack the same fields into 6 bytes.
	tight, err := Compile(schema, Native)
	require.NoError(t, err)
	require.Equal(t, 6, tight.Width())
}

// TestCompileUnknownEncoding checks encoding resolution at compile time.
func TestCompileUnknownEncoding(t *testing.T) {
	schema := NewRecordSchema("t", Str("s", 4).WithEncoding("no-such"))
	_, err := Compile(schema, BigEndian)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown string encoding")
}

// TestCompileCached checks that repeated compilation yields one record.
func TestCompileCached(t *testing.T) {
	schema := NewRecordSchema("t", U8("x"))

	first, err := CompileCached(schema, BigEndian)
	require.NoError(t, err)
	second, err := CompileCached(schema, BigEndian)
	require.NoError(t, err)
	require.Same(t, first, second)

	// A different byte order compiles separately.
	other, err := CompileCached(schema, LittleEndian)
	require.NoError(t, err)
	require.NotSame(t, first, other)
}
