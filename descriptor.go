package binrec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// descriptor is one entry in a record type's compiled schedule. Every
// descriptor knows its fixed byte width and how to produce and consume
// exactly that many bytes. Descriptors are immutable after compile and
// shared across all instances of the record type.
type descriptor interface {
	fieldName() string
	width() int

	// alignment is the host ABI alignment used by the native-aligned mode.
	alignment() int

	// valueKey returns the dictionary key read at pack time. ok is false
	// for descriptors that take no value.
	valueKey() (key string, ok bool)

	// visible reports whether decode contributes an entry to the unpack
	// dictionary.
	visible() bool

	// encode writes v into out, which is exactly width() zeroed bytes.
	encode(v any, out []byte) error

	// decode reads exactly width() bytes and returns the raw value.
	decode(in []byte) (any, error)
}

// primitiveDesc covers the fixed-width scalar kinds.
type primitiveDesc struct {
	name  string
	kind  Kind
	codec primCodec
	bo    binary.ByteOrder
	sc    *strCodec
}

func (d *primitiveDesc) fieldName() string { return d.name }
func (d *primitiveDesc) width() int { return d.codec.width }
func (d *primitiveDesc) alignment() int { return d.codec.width }
func (d *primitiveDesc) valueKey() (string, bool) { return d.name, true }
func (d *primitiveDesc) visible() bool { return true }

func (d *primitiveDesc) encode(v any, out []byte) error {
	return d.codec.put(d.bo, d.sc, out, v)
}

func (d *primitiveDesc) decode(in []byte) (any, error) {
	return d.codec.get(d.bo, d.sc, in)
}

// strDesc reserves a fixed byte count for an encoded string. Short values
// are zero-padded; long values are truncated at the byte reservation unless
// the field is strict. Truncation of a multi-byte encoding may split a
// codepoint; no correction is attempted.
type strDesc struct {
	name    string
	byteLen int
	sc      *strCodec
	strict  bool
}

func (d *strDesc) fieldName() string { return d.name }
func (d *strDesc) width() int { return d.byteLen }
func (d *strDesc) alignment() int { return 1 }
func (d *strDesc) valueKey() (string, bool) { return d.name, true }
func (d *strDesc) visible() bool { return true }

func (d *strDesc) encode(v any, out []byte) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("cannot encode %T as string", v)
	}
	enc, err := d.sc.encode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStringDecode, err)
	}
	if len(enc) > d.byteLen {
		if d.strict {
			return fmt.Errorf("%d encoded bytes in %d-byte reservation: %w",
				len(enc), d.byteLen, ErrBytesOverflow)
		}
		enc = enc[:d.byteLen]
	}
	copy(out, enc)
	return nil
}

func (d *strDesc) decode(in []byte) (any, error) {
	raw := in
	if i := bytes.IndexByte(raw, 0x00); i >= 0 {
		raw = raw[:i]
	}
	s, err := d.sc.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStringDecode, err)
	}
	return s, nil
}

// bytesDesc reserves a fixed raw byte buffer. Unlike strings, decoded
// values keep embedded zero bytes.
type bytesDesc struct {
	name    string
	byteLen int
}

func (d *bytesDesc) fieldName() string { return d.name }
func (d *bytesDesc) width() int { return d.byteLen }
func (d *bytesDesc) alignment() int { return 1 }
func (d *bytesDesc) valueKey() (string, bool) { return d.name, true }
func (d *bytesDesc) visible() bool { return true }

func (d *bytesDesc) encode(v any, out []byte) error {
	var b []byte
	switch val := v.(type) {
	case []byte:
		b = val
	case string:
		b = []byte(val)
	default:
		return fmt.Errorf("cannot encode %T as bytes", v)
	}
	if len(b) > d.byteLen {
		return fmt.Errorf("%d bytes in %d-byte reservation: %w",
			len(b), d.byteLen, ErrBytesOverflow)
	}
	copy(out, b)
	return nil
}

func (d *bytesDesc) decode(in []byte) (any, error) {
	out := make([]byte, d.byteLen)
	copy(out, in)
	return out, nil
}

// padDesc reserves no-value bytes. It takes no value when packing and
// contributes nothing when unpacking.
type padDesc struct {
	name    string
	byteLen int
}

func (d *padDesc) fieldName() string { return d.name }
func (d *padDesc) width() int { return d.byteLen }
func (d *padDesc) alignment() int { return 1 }
func (d *padDesc) valueKey() (string, bool) { return "", false }
func (d *padDesc) visible() bool { return false }

func (d *padDesc) encode(any, []byte) error {
	// The buffer arrives zeroed.
	return nil
}

func (d *padDesc) decode([]byte) (any, error) {
	return nil, nil
}

// outletDesc reserves a primitive slot whose value is computed by the
// collaborator. Packing reads the computed value under the stem name;
// unpacking discards the bytes, since the provider recomputes on demand.
type outletDesc struct {
	name string
	stem string
	prim primitiveDesc
}

// outletStem splits a "_outlet"-suffixed field name into its stem.
func outletStem(name string) (string, bool) {
	stem, found := strings.CutSuffix(name, "_outlet")
	if !found || stem == "" {
		return "", false
	}
	return stem, true
}

func (d *outletDesc) fieldName() string { return d.name }
func (d *outletDesc) width() int { return d.prim.width() }
func (d *outletDesc) alignment() int { return d.prim.alignment() }
func (d *outletDesc) valueKey() (string, bool) { return d.stem, true }
func (d *outletDesc) visible() bool { return false }

func (d *outletDesc) encode(v any, out []byte) error {
	return d.prim.encode(v, out)
}

func (d *outletDesc) decode([]byte) (any, error) {
	return nil, nil
}
