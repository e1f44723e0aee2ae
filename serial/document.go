package serial

// Document is an insertion-ordered mapping from field name to value. It is
// the in-memory shape of every encoded object: field order is preserved
// through encode and decode so serialized files diff cleanly.
//
// Values are one of: nil, bool, int64, float64, string, time.Time, []any,
// *Document, or a Serializable (on the encode side only; decoded documents
// contain structural values exclusively).
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Len returns the number of fields in the document.
func (d *Document) Len() int {
	return len(d.keys)
}

// Has reports whether the document contains the given field.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set stores value under key, appending the key to the field order if it is
// new. Overwriting an existing field keeps its original position.
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes the field and returns its former value.
func (d *Document) Delete(key string) (any, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Keys returns the field names in document order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Clone returns a shallow copy of the document: field order and the value
// map are duplicated, the values themselves are shared.
func (d *Document) Clone() *Document {
	out := &Document{
		keys:   make([]string, len(d.keys)),
		values: make(map[string]any, len(d.values)),
	}
	copy(out.keys, d.keys)
	for k, v := range d.values {
		out.values[k] = v
	}
	return out
}
