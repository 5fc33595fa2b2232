package binrec

import (
	"fmt"
	"reflect"
)

// unionDesc lets variant substructures share one byte range. The region is
// as wide as the widest member; shorter members are zero-padded on the
// right. Packing dispatches on the instance's runtime type. Unpacking runs
// the discrimination engine: left-to-right trial unpacking by default, or
// one-field dispatch when a discriminator is declared.
type unionDesc struct {
	name    string
	members []*Record

	// discField selects by-field discrimination; empty means left-to-right.
	// discSpecs holds, per member, the member's declaration of that field.
	discField string
	discSpecs []*FieldSpec

	maxWidth int
	maxAlign int
}

func (d *unionDesc) fieldName() string { return d.name }
func (d *unionDesc) width() int { return d.maxWidth }
func (d *unionDesc) alignment() int { return d.maxAlign }
func (d *unionDesc) valueKey() (string, bool) { return d.name, true }
func (d *unionDesc) visible() bool { return true }

func (d *unionDesc) encode(v any, out []byte) error {
	inst, ok := v.(Instance)
	if !ok {
		return fmt.Errorf("cannot encode %T as union member", v)
	}
	for _, member := range d.members {
		if member.schema == inst.Schema() {
			// Bytes beyond the member's width stay zero.
			return member.packInto(inst, out[:member.width])
		}
	}
	return fmt.Errorf("%s is not a member of union %s: %w",
		inst.Schema().Name(), d.name, ErrUnionNoMatch)
}

func (d *unionDesc) decode(in []byte) (any, error) {
	if d.discField != "" {
		return d.decodeByField(in)
	}
	return d.decodeLeftToRight(in)
}

// decodeLeftToRight tries each member in declaration order: structural
// unpack of the member's byte prefix, then collaborator validation. Any
// failure disqualifies the member; the first full success wins.
func (d *unionDesc) decodeLeftToRight(in []byte) (any, error) {
	causes := make([]error, 0, len(d.members))
	for _, member := range d.members {
		raw, err := member.unpackRaw(in[:member.width])
		if err != nil {
			causes = append(causes, err)
			continue
		}
		inst, err := member.schema.Validate(raw)
		if err != nil {
			causes = append(causes, err)
			continue
		}
		return inst, nil
	}
	return nil, &NoMatchError{Union: d.name, Causes: causes}
}

// decodeByField unpacks each member structurally at most once, inspects the
// discriminator field's raw value, and accepts the first member whose
// declared constraint admits it. Validation errors after a match propagate:
// the member has already been selected.
func (d *unionDesc) decodeByField(in []byte) (any, error) {
	causes := make([]error, 0, len(d.members))
	for i, member := range d.members {
		raw, err := member.unpackRaw(in[:member.width])
		if err != nil {
			causes = append(causes, err)
			continue
		}
		value, ok := raw[d.discField]
		if !ok {
			causes = append(causes, fmt.Errorf("no %s value decoded", d.discField))
			continue
		}
		if !admits(d.discSpecs[i].Literal, value) {
			causes = append(causes,
				fmt.Errorf("%s value %v not admitted", d.discField, value))
			continue
		}
		return member.schema.Validate(raw)
	}
	return nil, &NoMatchError{Union: d.name, Causes: causes}
}

// admits reports whether a declared literal set accepts a raw value. An
// empty set admits anything.
func admits(literals []any, value any) bool {
	if len(literals) == 0 {
		return true
	}
	for _, lit := range literals {
		if looseEqual(lit, value) {
			return true
		}
	}
	return false
}

// looseEqual compares a declared literal with a decoded value, tolerating
// integer width differences (a literal 4 matches a decoded uint8(4)).
func looseEqual(a, b any) bool {
	if ai, err := toInt64(a); err == nil {
		if bi, err := toInt64(b); err == nil {
			return ai == bi
		}
	}
	if au, err := toUint64(a); err == nil {
		if bu, err := toUint64(b); err == nil {
			return au == bu
		}
	}
	return reflect.DeepEqual(a, b)
}
