package binrec

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/scigolib/binrec/internal/utils"
)

// Record is a compiled record type: the ordered descriptor schedule, the
// per-field offsets and the total byte width, fixed for a schema and a
// byte-order mode. Records are immutable after Compile and safe for
// concurrent use.
type Record struct {
	schema  Schema
	order   ByteOrder
	bo      binary.ByteOrder
	descs   []descriptor
	offsets []int
	layouts []FieldLayout
	width   int
	align   int
}

// FieldLayout describes one field's position in the compiled layout.
type FieldLayout struct {
	Name   string
	Kind   Kind
	Offset int
	Width  int
}

// Schema returns the schema the record was compiled from.
func (r *Record) Schema() Schema { return r.schema }

// Order returns the record's byte-order mode.
func (r *Record) Order() ByteOrder { return r.order }

// Width returns the number of bytes needed to serialize any instance of the
// record. In native-aligned mode the value is host-dependent.
func (r *Record) Width() int { return r.width }

// Layout returns the compiled field layout in binary order.
func (r *Record) Layout() []FieldLayout {
	out := make([]FieldLayout, len(r.layouts))
	copy(out, r.layouts)
	return out
}

// Compile analyzes a schema's field list and produces the record's
// descriptor schedule and total width. It runs once per record type; the
// result is immutable. Nested records and union members are compiled
// recursively with the same byte-order mode.
func Compile(s Schema, order ByteOrder) (*Record, error) {
	r := &Record{
		schema: s,
		order:  order,
		bo:     order.encoder(),
		align:  1,
	}

	seen := make(map[string]struct{})
	for _, spec := range s.Fields() {
		if strings.HasPrefix(spec.Name, "_") {
			continue
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("record %s: duplicate field %q", s.Name(), spec.Name)
		}
		seen[spec.Name] = struct{}{}

		desc, err := resolveField(s, spec, order)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", s.Name(), fieldErr(spec.Name, err))
		}

		off := r.width
		if order.aligned() {
			a := desc.alignment()
			off = utils.AlignUp(off, a)
			if a > r.align {
				r.align = a
			}
		}
		if err := utils.CheckAddOverflow(off, desc.width()); err != nil {
			return nil, fmt.Errorf("record %s: %w", s.Name(), err)
		}

		r.descs = append(r.descs, desc)
		r.offsets = append(r.offsets, off)
		r.layouts = append(r.layouts, FieldLayout{
			Name:   spec.Name,
			Kind:   spec.Kind,
			Offset: off,
			Width:  desc.width(),
		})
		r.width = off + desc.width()
	}

	if order.aligned() {
		r.width = utils.AlignUp(r.width, r.align)
	}
	return r, nil
}

// resolveField turns one declared field into its descriptor.
func resolveField(s Schema, spec FieldSpec, order ByteOrder) (descriptor, error) {
	switch {
	case spec.Kind.IsPrimitive():
		return resolvePrimitive(spec, order)

	case spec.Kind == KindStr:
		if spec.Length <= 0 {
			return nil, ErrMissingLength
		}
		sc, err := resolveEncoding(spec.Encoding)
		if err != nil {
			return nil, err
		}
		return &strDesc{name: spec.Name, byteLen: spec.Length, sc: sc, strict: spec.Strict}, nil

	case spec.Kind == KindBytes:
		if spec.Length <= 0 {
			return nil, ErrMissingLength
		}
		return &bytesDesc{name: spec.Name, byteLen: spec.Length}, nil

	case spec.Kind == KindPadding:
		if spec.Length <= 0 {
			return nil, ErrMissingLength
		}
		return &padDesc{name: spec.Name, byteLen: spec.Length}, nil

	case spec.Kind == KindArray:
		return resolveArray(s, spec, order)

	case spec.Kind == KindRecord:
		if spec.Record == nil {
			return nil, fmt.Errorf("nested field without a record schema")
		}
		rec, err := Compile(spec.Record, order)
		if err != nil {
			return nil, err
		}
		return &nestedDesc{name: spec.Name, rec: rec}, nil

	case spec.Kind == KindUnion:
		return resolveUnion(spec, order)

	case spec.Kind == KindOutlet:
		return resolveOutlet(s, spec, order)

	default:
		return nil, fmt.Errorf("kind %s: %w", spec.Kind, ErrUnknownKind)
	}
}

func resolvePrimitive(spec FieldSpec, order ByteOrder) (*primitiveDesc, error) {
	codec, ok := primCodecs[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("kind %s: %w", spec.Kind, ErrUnknownKind)
	}
	sc, err := resolveEncoding(spec.Encoding)
	if err != nil {
		return nil, err
	}
	return &primitiveDesc{
		name:  spec.Name,
		kind:  spec.Kind,
		codec: codec,
		bo:    order.encoder(),
		sc:    sc,
	}, nil
}

func resolveArray(s Schema, spec FieldSpec, order ByteOrder) (descriptor, error) {
	if spec.Length <= 0 {
		return nil, ErrMissingLength
	}
	if spec.Elem == nil {
		return nil, fmt.Errorf("array field without an element kind")
	}
	if spec.Elem.Kind == KindPadding || spec.Elem.Kind == KindOutlet {
		return nil, fmt.Errorf("array of %s: %w", spec.Elem.Kind, ErrUnknownKind)
	}

	elemSpec := *spec.Elem
	elemSpec.Name = spec.Name
	elem, err := resolveField(s, elemSpec, order)
	if err != nil {
		return nil, err
	}
	if err := utils.CheckMultiplyOverflow(spec.Length, elem.width()); err != nil {
		return nil, err
	}
	if spec.Container == ContainerSet {
		// Decoded bytes, arrays and records are not comparable map keys.
		switch spec.Elem.Kind {
		case KindBytes, KindArray, KindRecord:
			return nil, fmt.Errorf("set of %s elements is not supported", spec.Elem.Kind)
		}
	}

	d := &arrayDesc{
		name:      spec.Name,
		elem:      elem,
		count:     spec.Length,
		filler:    spec.Filler,
		retain:    spec.RetainFillers,
		container: spec.Container,
	}

	if f := spec.Filler; f != nil && f.Mode != FillerNone {
		switch spec.Elem.Kind {
		case KindRecord, KindUnion:
			return nil, fmt.Errorf("filler policy on array of %s is not supported", spec.Elem.Kind)
		}
		switch f.Mode {
		case FillerDefault:
			// The element kind's zero value is whatever zeroed bytes decode to.
			zero, err := elem.decode(make([]byte, elem.width()))
			if err != nil {
				return nil, err
			}
			d.fillValue = zero
		case FillerValue:
			canonical, err := roundTripElem(elem, f.Value)
			if err != nil {
				return nil, fmt.Errorf("filler value: %w", err)
			}
			d.fillValue = canonical
		case FillerFunc:
			if f.Func == nil {
				return nil, fmt.Errorf("filler func not provided")
			}
		}
	}
	return d, nil
}

// roundTripElem canonicalizes a value through the element codec so filler
// trimming compares like with like (a configured int 0 against a decoded
// uint8).
func roundTripElem(elem descriptor, v any) (any, error) {
	buf := make([]byte, elem.width())
	if err := elem.encode(v, buf); err != nil {
		return nil, err
	}
	return elem.decode(buf)
}

func resolveUnion(spec FieldSpec, order ByteOrder) (descriptor, error) {
	if len(spec.Members) == 0 {
		return nil, fmt.Errorf("union field without members")
	}

	d := &unionDesc{
		name:      spec.Name,
		discField: spec.Discriminator,
		maxAlign:  1,
	}
	for _, member := range spec.Members {
		rec, err := Compile(member, order)
		if err != nil {
			return nil, err
		}
		d.members = append(d.members, rec)
		if rec.width > d.maxWidth {
			d.maxWidth = rec.width
		}
		if rec.align > d.maxAlign {
			d.maxAlign = rec.align
		}

		if spec.Discriminator != "" {
			ds := findField(member, spec.Discriminator)
			if ds == nil {
				return nil, fmt.Errorf("member %s has no field %q: %w",
					member.Name(), spec.Discriminator, ErrDiscriminator)
			}
			d.discSpecs = append(d.discSpecs, ds)
		}
	}
	return d, nil
}

func findField(s Schema, name string) *FieldSpec {
	for _, spec := range s.Fields() {
		if spec.Name == name {
			found := spec
			return &found
		}
	}
	return nil
}

func resolveOutlet(s Schema, spec FieldSpec, order ByteOrder) (descriptor, error) {
	stem, ok := outletStem(spec.Name)
	if !ok {
		return nil, fmt.Errorf("outlet field name must end in _outlet: %w", ErrOutletMismatch)
	}
	if spec.Elem == nil || !spec.Elem.Kind.IsPrimitive() {
		return nil, fmt.Errorf("outlet needs a primitive slot kind: %w", ErrOutletMismatch)
	}
	declared, ok := s.Computed(stem)
	if !ok {
		return nil, fmt.Errorf("no computed provider %q: %w", stem, ErrOutletMismatch)
	}
	if declared != spec.Elem.Kind {
		return nil, fmt.Errorf("provider %q returns %s, outlet slot is %s: %w",
			stem, declared, spec.Elem.Kind, ErrOutletMismatch)
	}

	primSpec := *spec.Elem
	primSpec.Name = spec.Name
	prim, err := resolvePrimitive(primSpec, order)
	if err != nil {
		return nil, err
	}
	return &outletDesc{name: spec.Name, stem: stem, prim: *prim}, nil
}

// compileKey identifies a memoized compilation.
type compileKey struct {
	schema Schema
	order  ByteOrder
}

var compileCache sync.Map

// CompileCached memoizes Compile per (schema, byte order). Concurrent
// first-touch is safe; all callers observe the same *Record.
func CompileCached(s Schema, order ByteOrder) (*Record, error) {
	key := compileKey{schema: s, order: order}
	if cached, ok := compileCache.Load(key); ok {
		return cached.(*Record), nil
	}
	rec, err := Compile(s, order)
	if err != nil {
		return nil, err
	}
	actual, _ := compileCache.LoadOrStore(key, rec)
	return actual.(*Record), nil
}
