package binrec

import "fmt"

// Kind identifies a field kind in a record schema.
type Kind uint8

// Field kind constants cover every descriptor variant the layout compiler
// understands.
const (
	KindInvalid Kind = iota

	// Primitive kinds. Widths are fixed per kind.
	KindU8   // unsigned 8-bit integer
	KindU16  // unsigned 16-bit integer
	KindU32  // unsigned 32-bit integer
	KindU64  // unsigned 64-bit integer
	KindI8   // signed 8-bit integer
	KindI16  // signed 16-bit integer
	KindI32  // signed 32-bit integer
	KindI64  // signed 64-bit integer
	KindF32  // IEEE 754 binary32
	KindF64  // IEEE 754 binary64
	KindBool // one byte, 0x00 = false
	KindChar // one byte in the field's string encoding

	// Aggregate and reservation kinds. Widths come from annotations or from
	// the resolved parts.
	KindStr     // fixed byte reservation holding an encoded string
	KindBytes   // fixed raw byte reservation
	KindPadding // reserved no-value bytes
	KindArray   // fixed-count sequence of an element kind
	KindRecord  // nested record
	KindUnion   // variant substructures sharing a byte range
	KindOutlet  // computed-value placeholder, primitive-width
)

// IsPrimitive reports whether the kind has a fixed primitive codec entry.
func (k Kind) IsPrimitive() bool {
	return k >= KindU8 && k <= KindChar
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindI64
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k Kind) IsUnsigned() bool {
	return k >= KindU8 && k <= KindU64
}

var kindNames = map[Kind]string{
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindI8:      "i8",
	KindI16:     "i16",
	KindI32:     "i32",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindBool:    "bool",
	KindChar:    "char",
	KindStr:     "str",
	KindBytes:   "bytes",
	KindPadding: "padding",
	KindArray:   "array",
	KindRecord:  "record",
	KindUnion:   "union",
	KindOutlet:  "outlet",
}

// String returns the lower-case kind name used in manifests and messages.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind_%d", uint8(k))
}

// ParseKind maps a manifest kind name to its Kind. The outlet kind is not
// accepted here: outlets need a computed provider, which only code can
// supply.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name && k != KindOutlet {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("kind %q: %w", name, ErrUnknownKind)
}
