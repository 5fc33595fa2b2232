package binrec

// Schema is the collaborator interface through which the codec reaches the
// data model that owns instance construction and constraint enforcement.
// The compiler consumes Fields and Computed at record construction time;
// Pack and Unpack call Dump and Validate at run time.
type Schema interface {
	// Name identifies the record type in errors and manifests.
	Name() string

	// Fields returns the declared fields in binary order: base-type fields
	// first, in base declaration order, then the type's own fields. Names
	// beginning with an underscore are ignored by the compiler.
	Fields() []FieldSpec

	// Computed reports the declared result kind of the computed-value
	// provider with the given name, if one exists.
	Computed(name string) (Kind, bool)

	// Validate turns a raw value dictionary into a validated instance.
	Validate(values map[string]any) (Instance, error)

	// Dump returns the declared-field values of an instance, plus computed
	// values keyed under their unadorned names.
	Dump(inst Instance) (map[string]any, error)
}

// Instance is a validated record value produced by a Schema.
type Instance interface {
	// Schema returns the runtime type; unions dispatch packing on it.
	Schema() Schema

	// Get returns the value of a declared field.
	Get(name string) (any, bool)
}

// FieldSpec declares one field of a record schema. Which members apply
// depends on Kind; the layout compiler rejects incomplete declarations.
type FieldSpec struct {
	Name string
	Kind Kind

	// Length fixes the byte count for Str, Bytes and Padding fields and the
	// element count for Array fields. Required for those kinds.
	Length int

	// Encoding names the string encoding for Str and Char fields.
	// Empty means UTF-8.
	Encoding string

	// Strict makes Str packing fail instead of silently truncating when the
	// encoded value exceeds Length bytes.
	Strict bool

	// Elem declares the element of an Array field, or the reserved
	// primitive slot of an Outlet field.
	Elem *FieldSpec

	// Filler configures how short Array values are topped up to Length
	// elements. Nil means no filler: short values fail.
	Filler *Filler

	// RetainFillers disables trailing-filler trimming when unpacking an
	// Array field that has a filler configured.
	RetainFillers bool

	// Container selects the Go container an Array field unpacks into.
	Container Container

	// Record is the nested schema of a Record field.
	Record Schema

	// Members are the variant schemas of a Union field, in declaration
	// order.
	Members []Schema

	// Discriminator selects by-field union discrimination; the named field
	// must exist in every member. Empty selects left-to-right trials.
	Discriminator string

	// Literal restricts the field to the listed values. The built-in model
	// enforces it at validation time, and by-field union discrimination
	// reads it to admit or reject a member.
	Literal []any
}

// Filler configures the array filler policy.
type Filler struct {
	Mode FillerMode

	// Value is the filler element for FillerValue.
	Value any

	// Func produces filler elements for FillerFunc.
	Func func() any
}

// FillerMode enumerates the array filler policies.
type FillerMode uint8

const (
	// FillerNone rejects short array values.
	FillerNone FillerMode = iota
	// FillerDefault fills with the element kind's zero value.
	FillerDefault
	// FillerValue fills with Filler.Value.
	FillerValue
	// FillerFunc fills with values produced by Filler.Func.
	FillerFunc
)

// Container enumerates the Go containers an array can unpack into.
type Container uint8

const (
	// ContainerSlice unpacks into []any, preserving element order.
	ContainerSlice Container = iota
	// ContainerSet unpacks into map[any]struct{}. Packing a set encodes
	// elements in a deterministic order, but round-trips only hold up to
	// set equality.
	ContainerSet
)
