package binrec

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest holds record schemas declared in a YAML document, compiled in
// declaration order. Nested records and union members refer to records
// declared earlier in the same document; outlets cannot be declared in a
// manifest because computed providers are code.
type Manifest struct {
	names   []string
	schemas map[string]*RecordSchema
	records map[string]*Record
}

type manifestDoc struct {
	Records []recordDoc `yaml:"records"`
}

type recordDoc struct {
	Name   string     `yaml:"name"`
	Order  string     `yaml:"order"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name          string     `yaml:"name"`
	Kind          string     `yaml:"kind"`
	Length        int        `yaml:"length"`
	Encoding      string     `yaml:"encoding"`
	Strict        bool       `yaml:"strict"`
	Element       *fieldDoc  `yaml:"element"`
	Filler        *fillerDoc `yaml:"filler"`
	RetainFillers bool       `yaml:"retain-fillers"`
	Set           bool       `yaml:"set"`
	Record        string     `yaml:"record"`
	Members       []string   `yaml:"members"`
	Discriminator string     `yaml:"discriminator"`
	Literal       []any      `yaml:"literal"`
}

type fillerDoc struct {
	Mode  string `yaml:"mode"`
	Value any    `yaml:"value"`
}

// LoadManifest parses a YAML manifest and compiles every record it
// declares.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc manifestDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("manifest parse failed: %w", err)
	}

	m := &Manifest{
		schemas: make(map[string]*RecordSchema),
		records: make(map[string]*Record),
	}
	for _, rd := range doc.Records {
		if rd.Name == "" {
			return nil, fmt.Errorf("manifest record without a name")
		}
		if _, dup := m.schemas[rd.Name]; dup {
			return nil, fmt.Errorf("manifest record %q declared twice", rd.Name)
		}

		order := Native
		if rd.Order != "" {
			var err error
			order, err = ParseByteOrder(rd.Order)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", rd.Name, err)
			}
		}

		specs := make([]FieldSpec, 0, len(rd.Fields))
		for _, fd := range rd.Fields {
			spec, err := m.fieldSpec(fd)
			if err != nil {
				return nil, fmt.Errorf("record %q: field %q: %w", rd.Name, fd.Name, err)
			}
			specs = append(specs, spec)
		}

		schema := NewRecordSchema(rd.Name, specs...)
		rec, err := Compile(schema, order)
		if err != nil {
			return nil, err
		}
		m.names = append(m.names, rd.Name)
		m.schemas[rd.Name] = schema
		m.records[rd.Name] = rec
	}
	return m, nil
}

// LoadManifestFile loads a manifest from a file.
func LoadManifestFile(path string) (*Manifest, error) {
	//nolint:gosec // G304: user-provided manifest path is intentional
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest open failed: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

func (m *Manifest) fieldSpec(fd fieldDoc) (FieldSpec, error) {
	kind, err := ParseKind(fd.Kind)
	if err != nil {
		return FieldSpec{}, err
	}

	spec := FieldSpec{
		Name:          fd.Name,
		Kind:          kind,
		Length:        fd.Length,
		Encoding:      fd.Encoding,
		Strict:        fd.Strict,
		RetainFillers: fd.RetainFillers,
		Discriminator: fd.Discriminator,
		Literal:       fd.Literal,
	}
	if fd.Set {
		spec.Container = ContainerSet
	}

	if fd.Element != nil {
		elem, err := m.fieldSpec(*fd.Element)
		if err != nil {
			return FieldSpec{}, err
		}
		spec.Elem = &elem
	}

	if fd.Filler != nil {
		switch fd.Filler.Mode {
		case "", "value":
			spec.Filler = &Filler{Mode: FillerValue, Value: fd.Filler.Value}
		case "default":
			spec.Filler = &Filler{Mode: FillerDefault}
		case "none":
			spec.Filler = &Filler{Mode: FillerNone}
		default:
			return FieldSpec{}, fmt.Errorf("unknown filler mode %q", fd.Filler.Mode)
		}
	}

	if fd.Record != "" {
		ref, ok := m.schemas[fd.Record]
		if !ok {
			return FieldSpec{}, fmt.Errorf("unknown record %q (declare it earlier in the manifest)", fd.Record)
		}
		spec.Record = ref
	}

	for _, member := range fd.Members {
		ref, ok := m.schemas[member]
		if !ok {
			return FieldSpec{}, fmt.Errorf("unknown union member %q (declare it earlier in the manifest)", member)
		}
		spec.Members = append(spec.Members, ref)
	}

	return spec, nil
}

// Names returns the record names in declaration order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Record returns a compiled record by name.
func (m *Manifest) Record(name string) (*Record, bool) {
	rec, ok := m.records[name]
	return rec, ok
}

// Schema returns a declared schema by name.
func (m *Manifest) Schema(name string) (*RecordSchema, bool) {
	schema, ok := m.schemas[name]
	return schema, ok
}
