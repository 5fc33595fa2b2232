package binrec

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
)

// arrayDesc encodes a fixed count of elements back-to-back. Short input is
// topped up per the filler policy; on unpack, trailing fillers are trimmed
// again unless the field retains them.
type arrayDesc struct {
	name      string
	elem      descriptor
	count     int
	filler    *Filler
	retain    bool
	container Container

	// fillValue is the canonical filler element (already round-tripped
	// through the element codec), nil for FillerFunc and FillerNone.
	fillValue any
}

func (d *arrayDesc) fieldName() string { return d.name }
func (d *arrayDesc) width() int { return d.count * d.elem.width() }
func (d *arrayDesc) alignment() int { return d.elem.alignment() }
func (d *arrayDesc) valueKey() (string, bool) { return d.name, true }
func (d *arrayDesc) visible() bool { return true }

func (d *arrayDesc) encode(v any, out []byte) error {
	elems, err := d.sequence(v)
	if err != nil {
		return err
	}
	if len(elems) > d.count {
		return fmt.Errorf("%d elements, declared count %d: %w",
			len(elems), d.count, ErrArrayOverflow)
	}
	if len(elems) < d.count {
		fillers, err := d.makeFillers(d.count - len(elems))
		if err != nil {
			return err
		}
		elems = append(elems, fillers...)
	}

	w := d.elem.width()
	for i, e := range elems {
		if err := d.elem.encode(e, out[i*w:(i+1)*w]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (d *arrayDesc) decode(in []byte) (any, error) {
	w := d.elem.width()
	elems := make([]any, d.count)
	for i := range elems {
		e, err := d.elem.decode(in[i*w : (i+1)*w])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}

	if d.filler != nil && d.filler.Mode != FillerNone && !d.retain {
		elems = trimFillers(elems, d.trimValue())
	}

	if d.container == ContainerSet {
		set := make(map[any]struct{}, len(elems))
		for _, e := range elems {
			set[e] = struct{}{}
		}
		return set, nil
	}
	return elems, nil
}

// sequence normalizes an array value to []any. Sets encode in a
// deterministic order: elements are sorted by their encoded byte form.
func (d *arrayDesc) sequence(v any) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case map[any]struct{}:
		return d.sortedSet(val)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return elems, nil
	}
	return nil, fmt.Errorf("cannot encode %T as array", v)
}

func (d *arrayDesc) sortedSet(set map[any]struct{}) ([]any, error) {
	type keyed struct {
		elem any
		enc  []byte
	}
	keys := make([]keyed, 0, len(set))
	for e := range set {
		buf := make([]byte, d.elem.width())
		if err := d.elem.encode(e, buf); err != nil {
			return nil, err
		}
		keys = append(keys, keyed{elem: e, enc: buf})
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].enc, keys[j].enc) < 0
	})
	elems := make([]any, len(keys))
	for i, k := range keys {
		elems[i] = k.elem
	}
	return elems, nil
}

func (d *arrayDesc) makeFillers(n int) ([]any, error) {
	if d.filler == nil || d.filler.Mode == FillerNone {
		return nil, fmt.Errorf("declared count %d, %d elements short: %w",
			d.count, n, ErrArrayUnderflow)
	}
	fillers := make([]any, n)
	for i := range fillers {
		switch d.filler.Mode {
		case FillerFunc:
			fillers[i] = d.filler.Func()
		default:
			fillers[i] = d.fillValue
		}
	}
	return fillers, nil
}

// trimValue is the element trailing fillers are compared against. For
// FillerFunc the producer is sampled once per unpack.
func (d *arrayDesc) trimValue() any {
	if d.filler.Mode == FillerFunc {
		return d.filler.Func()
	}
	return d.fillValue
}

// trimFillers removes trailing elements equal to fill. Non-trailing fillers
// are retained.
func trimFillers(elems []any, fill any) []any {
	end := len(elems)
	for end > 0 && reflect.DeepEqual(elems[end-1], fill) {
		end--
	}
	return elems[:end]
}
