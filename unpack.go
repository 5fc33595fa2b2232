package binrec

import "fmt"

// Unpack parses a byte string of exactly Width() bytes into a validated
// instance. Descriptors decode their slices into a raw value dictionary,
// which is handed to the schema's Validate. Errors from Validate propagate
// unchanged; inside union trials they disqualify the member instead.
func (r *Record) Unpack(data []byte) (Instance, error) {
	values, err := r.unpackRaw(data)
	if err != nil {
		return nil, err
	}
	return r.schema.Validate(values)
}

// UnpackRaw parses a byte string into the raw value dictionary without
// validating it. Padding and outlet fields contribute nothing.
func (r *Record) UnpackRaw(data []byte) (map[string]any, error) {
	return r.unpackRaw(data)
}

func (r *Record) unpackRaw(data []byte) (map[string]any, error) {
	if len(data) != r.width {
		return nil, fmt.Errorf("record %s: got %d bytes, width is %d: %w",
			r.schema.Name(), len(data), r.width, ErrLengthMismatch)
	}

	values := make(map[string]any, len(r.descs))
	for i, desc := range r.descs {
		if !desc.visible() {
			continue
		}
		off := r.offsets[i]
		v, err := desc.decode(data[off : off+desc.width()])
		if err != nil {
			return nil, fieldErr(desc.fieldName(), err)
		}
		values[desc.fieldName()] = v
	}
	return values, nil
}
