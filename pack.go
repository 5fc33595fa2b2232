package binrec

import (
	"fmt"

	"github.com/scigolib/binrec/internal/utils"
)

// Pack serializes a validated instance to a byte string of exactly
// Width() bytes. The value dictionary comes from the schema's Dump,
// computed values included; descriptors then write their slices of the
// buffer in schedule order.
func (r *Record) Pack(inst Instance) ([]byte, error) {
	buf := utils.GetBuffer(r.width)
	defer utils.ReleaseBuffer(buf)

	if err := r.packInto(inst, buf); err != nil {
		return nil, err
	}
	out := make([]byte, r.width)
	copy(out, buf)
	return out, nil
}

// packInto writes the instance into out, which must be exactly width zeroed
// bytes. Nested and union descriptors call it recursively.
func (r *Record) packInto(inst Instance, out []byte) error {
	values, err := r.schema.Dump(inst)
	if err != nil {
		return err
	}

	for i, desc := range r.descs {
		key, needsValue := desc.valueKey()
		var v any
		if needsValue {
			var ok bool
			v, ok = values[key]
			if !ok {
				return fieldErr(desc.fieldName(),
					fmt.Errorf("no value for %q in dump of %s", key, r.schema.Name()))
			}
		}
		off := r.offsets[i]
		if err := desc.encode(v, out[off:off+desc.width()]); err != nil {
			return fieldErr(desc.fieldName(), err)
		}
	}
	return nil
}
