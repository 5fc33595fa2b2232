package binrec

import (
	"fmt"
	"strings"

	"github.com/scigolib/binrec/internal/utils"
)

// ValidationError is the validation-family failure raised by RecordSchema.
// The codec core re-raises it unchanged, except inside union trials where it
// disqualifies the member under test.
type ValidationError struct {
	Schema string
	Field  string
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Schema, e.Field, e.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ComputedFunc produces a computed field value from a validated instance.
type ComputedFunc func(Instance) (any, error)

type computedDef struct {
	kind Kind
	fn   ComputedFunc
}

// RecordSchema is the built-in Schema implementation: a declarative record
// type with ordered fields, optional base schemas whose fields precede its
// own, computed-value providers, and per-field validation hooks. It applies
// integer range checks and literal constraints at validation time; anything
// richer belongs to a full data-model framework.
type RecordSchema struct {
	name     string
	bases    []*RecordSchema
	fields   []FieldSpec
	computed map[string]computedDef
	checks   map[string][]func(any) error
}

// NewRecordSchema declares a record schema with the given fields in binary
// order.
func NewRecordSchema(name string, fields ...FieldSpec) *RecordSchema {
	return &RecordSchema{
		name:     name,
		fields:   fields,
		computed: make(map[string]computedDef),
		checks:   make(map[string][]func(any) error),
	}
}

// Embed prepends base schemas. Base fields come first in the flattened
// field list, in the order the bases are given.
func (s *RecordSchema) Embed(bases ...*RecordSchema) *RecordSchema {
	s.bases = append(s.bases, bases...)
	return s
}

// DefineComputed registers a computed-value provider. An outlet field named
// name+"_outlet" reserves the binary slot for it.
func (s *RecordSchema) DefineComputed(name string, kind Kind, fn ComputedFunc) *RecordSchema {
	s.computed[name] = computedDef{kind: kind, fn: fn}
	return s
}

// Check adds a validation hook for one field.
func (s *RecordSchema) Check(field string, fn func(any) error) *RecordSchema {
	s.checks[field] = append(s.checks[field], fn)
	return s
}

// Name implements Schema.
func (s *RecordSchema) Name() string { return s.name }

// Fields implements Schema: base fields first, in base declaration order,
// then the schema's own fields.
func (s *RecordSchema) Fields() []FieldSpec {
	if len(s.bases) == 0 {
		return s.fields
	}
	var out []FieldSpec
	for _, base := range s.bases {
		out = append(out, base.Fields()...)
	}
	return append(out, s.fields...)
}

// Computed implements Schema.
func (s *RecordSchema) Computed(name string) (Kind, bool) {
	if def, ok := s.computed[name]; ok {
		return def.kind, true
	}
	for _, base := range s.bases {
		if kind, ok := base.Computed(name); ok {
			return kind, true
		}
	}
	return KindInvalid, false
}

func (s *RecordSchema) allComputed() map[string]computedDef {
	out := make(map[string]computedDef)
	for _, base := range s.bases {
		for name, def := range base.allComputed() {
			out[name] = def
		}
	}
	for name, def := range s.computed {
		out[name] = def
	}
	return out
}

// Validate implements Schema. Unknown keys in values are ignored; missing
// declared fields, range violations, literal violations and hook failures
// are ValidationErrors.
func (s *RecordSchema) Validate(values map[string]any) (Instance, error) {
	out := make(map[string]any)
	for _, spec := range s.Fields() {
		if spec.Kind == KindPadding || spec.Kind == KindOutlet ||
			strings.HasPrefix(spec.Name, "_") {
			continue
		}
		v, ok := values[spec.Name]
		if !ok {
			return nil, &ValidationError{Schema: s.name, Field: spec.Name,
				Err: fmt.Errorf("missing value")}
		}
		normalized, err := normalizeValue(spec, v)
		if err != nil {
			return nil, &ValidationError{Schema: s.name, Field: spec.Name, Err: err}
		}
		if !admits(spec.Literal, normalized) {
			return nil, &ValidationError{Schema: s.name, Field: spec.Name,
				Err: fmt.Errorf("%v not among declared literals %v", normalized, spec.Literal)}
		}
		for _, check := range s.checks[spec.Name] {
			if err := check(normalized); err != nil {
				return nil, &ValidationError{Schema: s.name, Field: spec.Name, Err: err}
			}
		}
		out[spec.Name] = normalized
	}
	return &RecordValue{schema: s, values: out}, nil
}

// Dump implements Schema: declared-field values plus computed values keyed
// under their unadorned names.
func (s *RecordSchema) Dump(inst Instance) (map[string]any, error) {
	out := make(map[string]any)
	for _, spec := range s.Fields() {
		if spec.Kind == KindPadding || spec.Kind == KindOutlet ||
			strings.HasPrefix(spec.Name, "_") {
			continue
		}
		v, ok := inst.Get(spec.Name)
		if !ok {
			return nil, fmt.Errorf("%s: instance has no value for %q", s.name, spec.Name)
		}
		out[spec.Name] = v
	}
	for name, def := range s.allComputed() {
		v, err := def.fn(inst)
		if err != nil {
			return nil, fmt.Errorf("%s: computed %q: %w", s.name, name, err)
		}
		out[name] = v
	}
	return out, nil
}

// normalizeValue coerces a raw value to the canonical Go type of the field
// kind, applying range checks for integers.
func normalizeValue(spec FieldSpec, v any) (any, error) {
	switch spec.Kind {
	case KindU8, KindU16, KindU32, KindU64:
		u, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		width := primCodecs[spec.Kind].width
		if err := utils.CheckUintRange(u, width); err != nil {
			return nil, err
		}
		switch spec.Kind {
		case KindU8:
			return uint8(u), nil
		case KindU16:
			return uint16(u), nil
		case KindU32:
			return uint32(u), nil
		default:
			return u, nil
		}

	case KindI8, KindI16, KindI32, KindI64:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		width := primCodecs[spec.Kind].width
		if err := utils.CheckIntRange(i, width); err != nil {
			return nil, err
		}
		switch spec.Kind {
		case KindI8:
			return int8(i), nil
		case KindI16:
			return int16(i), nil
		case KindI32:
			return int32(i), nil
		default:
			return i, nil
		}

	case KindF32:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return float32(f), nil

	case KindF64:
		return toFloat64(v)

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil

	case KindChar:
		return charString(v)

	case KindStr:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return str, nil

	case KindBytes:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		default:
			return nil, fmt.Errorf("expected bytes, got %T", v)
		}

	case KindArray:
		return normalizeArray(spec, v)

	case KindRecord:
		switch nested := v.(type) {
		case Instance:
			return nested, nil
		case map[string]any:
			return spec.Record.Validate(nested)
		default:
			return nil, fmt.Errorf("expected record value, got %T", v)
		}

	case KindUnion:
		inst, ok := v.(Instance)
		if !ok {
			return nil, fmt.Errorf("expected union member instance, got %T", v)
		}
		for _, member := range spec.Members {
			if member == inst.Schema() {
				return inst, nil
			}
		}
		return nil, fmt.Errorf("%s is not a declared union member", inst.Schema().Name())

	default:
		return nil, fmt.Errorf("kind %s: %w", spec.Kind, ErrUnknownKind)
	}
}

func normalizeArray(spec FieldSpec, v any) (any, error) {
	var elems []any
	switch val := v.(type) {
	case []any:
		elems = val
	case map[any]struct{}:
		elems = make([]any, 0, len(val))
		for e := range val {
			elems = append(elems, e)
		}
	default:
		// Typed slices arrive here; reuse the descriptor normalization.
		d := arrayDesc{}
		var err error
		elems, err = d.sequence(v)
		if err != nil {
			return nil, err
		}
	}

	normalized := make([]any, len(elems))
	for i, e := range elems {
		n, err := normalizeValue(*spec.Elem, e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		normalized[i] = n
	}

	if spec.Container == ContainerSet {
		set := make(map[any]struct{}, len(normalized))
		for _, e := range normalized {
			set[e] = struct{}{}
		}
		return set, nil
	}
	return normalized, nil
}

// RecordValue is the instance type produced by RecordSchema.
type RecordValue struct {
	schema *RecordSchema
	values map[string]any
}

// Schema implements Instance.
func (v *RecordValue) Schema() Schema { return v.schema }

// Get implements Instance.
func (v *RecordValue) Get(name string) (any, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Values returns a copy of the instance's field values.
func (v *RecordValue) Values() map[string]any {
	out := make(map[string]any, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}
