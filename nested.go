package binrec

import "fmt"

// nestedDesc splices a complete record into the enclosing layout. Packing
// recursively packs the nested instance; unpacking returns the raw value
// dictionary, leaving validation to the enclosing schema.
type nestedDesc struct {
	name string
	rec  *Record
}

func (d *nestedDesc) fieldName() string { return d.name }
func (d *nestedDesc) width() int { return d.rec.width }
func (d *nestedDesc) alignment() int { return d.rec.align }
func (d *nestedDesc) valueKey() (string, bool) { return d.name, true }
func (d *nestedDesc) visible() bool { return true }

func (d *nestedDesc) encode(v any, out []byte) error {
	inst, ok := v.(Instance)
	if !ok {
		return fmt.Errorf("cannot encode %T as record %s", v, d.rec.schema.Name())
	}
	return d.rec.packInto(inst, out)
}

func (d *nestedDesc) decode(in []byte) (any, error) {
	return d.rec.unpackRaw(in)
}
