package binrec

// Field constructors. Schemas read best when declared as a flat list:
//
//	schema := binrec.NewRecordSchema("telemetry",
//		binrec.U32("id"),
//		binrec.Str("label", 8),
//		binrec.Array("samples", binrec.U16(""), 16).WithFiller(uint16(0)),
//	)

// U8 declares an unsigned 8-bit integer field.
func U8(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindU8} }

// U16 declares an unsigned 16-bit integer field.
func U16(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindU16} }

// U32 declares an unsigned 32-bit integer field.
func U32(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindU32} }

// U64 declares an unsigned 64-bit integer field.
func U64(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindU64} }

// I8 declares a signed 8-bit integer field.
func I8(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindI8} }

// I16 declares a signed 16-bit integer field.
func I16(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindI16} }

// I32 declares a signed 32-bit integer field.
func I32(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindI32} }

// I64 declares a signed 64-bit integer field.
func I64(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindI64} }

// F32 declares an IEEE 754 binary32 field.
func F32(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindF32} }

// F64 declares an IEEE 754 binary64 field.
func F64(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindF64} }

// Bool declares a one-byte boolean field.
func Bool(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindBool} }

// Char declares a one-byte character field.
func Char(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindChar} }

// Str declares a fixed-length string field reserving length bytes.
func Str(name string, length int) FieldSpec {
	return FieldSpec{Name: name, Kind: KindStr, Length: length}
}

// Bytes declares a fixed-length raw byte field.
func Bytes(name string, length int) FieldSpec {
	return FieldSpec{Name: name, Kind: KindBytes, Length: length}
}

// Pad declares reserved no-value bytes.
func Pad(name string, length int) FieldSpec {
	return FieldSpec{Name: name, Kind: KindPadding, Length: length}
}

// Array declares a fixed-count sequence of elem.
func Array(name string, elem FieldSpec, count int) FieldSpec {
	e := elem
	return FieldSpec{Name: name, Kind: KindArray, Elem: &e, Length: count}
}

// Nested declares a nested record field.
func Nested(name string, s Schema) FieldSpec {
	return FieldSpec{Name: name, Kind: KindRecord, Record: s}
}

// UnionOf declares a union field over the member schemas, discriminated
// left-to-right unless DiscriminateBy is applied.
func UnionOf(name string, members ...Schema) FieldSpec {
	return FieldSpec{Name: name, Kind: KindUnion, Members: members}
}

// Outlet declares a computed-value placeholder occupying one primitive slot.
// The name must end in "_outlet"; the stem names the computed provider.
func Outlet(name string, kind Kind) FieldSpec {
	return FieldSpec{Name: name, Kind: KindOutlet, Elem: &FieldSpec{Kind: kind}}
}

// WithEncoding overrides the string encoding of a Str or Char field.
func (f FieldSpec) WithEncoding(encoding string) FieldSpec {
	f.Encoding = encoding
	return f
}

// StrictLength makes a Str field fail on overflow instead of truncating.
func (f FieldSpec) StrictLength() FieldSpec {
	f.Strict = true
	return f
}

// WithFiller configures an Array field to top up short values with v.
func (f FieldSpec) WithFiller(v any) FieldSpec {
	f.Filler = &Filler{Mode: FillerValue, Value: v}
	return f
}

// WithDefaultFiller configures an Array field to top up short values with
// the element kind's zero value.
func (f FieldSpec) WithDefaultFiller() FieldSpec {
	f.Filler = &Filler{Mode: FillerDefault}
	return f
}

// WithFillerFunc configures an Array field to top up short values with
// elements produced by fn.
func (f FieldSpec) WithFillerFunc(fn func() any) FieldSpec {
	f.Filler = &Filler{Mode: FillerFunc, Func: fn}
	return f
}

// KeepFillers disables trailing-filler trimming on unpack.
func (f FieldSpec) KeepFillers() FieldSpec {
	f.RetainFillers = true
	return f
}

// AsSet makes an Array field unpack into a set container.
func (f FieldSpec) AsSet() FieldSpec {
	f.Container = ContainerSet
	return f
}

// DiscriminateBy selects by-field discrimination for a Union field.
func (f FieldSpec) DiscriminateBy(field string) FieldSpec {
	f.Discriminator = field
	return f
}

// WithLiteral restricts the field to the listed values.
func (f FieldSpec) WithLiteral(values ...any) FieldSpec {
	f.Literal = values
	return f
}
