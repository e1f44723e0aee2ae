package serial

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// SetConfig fixes the per-concrete-type settings of a Set. In addition to
// the container settings it names the element attribute whose value keys
// the collection.
type SetConfig[E Serializable] struct {
	ContainerConfig[E]
	// KeyAttr is the element field used to key the set.
	KeyAttr string
}

func (cfg *SetConfig[E]) validate() error {
	if err := cfg.ContainerConfig.validate("set"); err != nil {
		return err
	}
	if cfg.KeyAttr == "" {
		return fmt.Errorf("serial: set %s declares no key attribute", cfg.TypeName)
	}
	return nil
}

// Set is a keyed, homogeneous collection of Serializable elements with O(1)
// lookup by key. The key is derived from each element's configured key
// attribute; elements whose key attribute is empty receive a generated
// surrogate key so they are never silently lost, and inserting an element
// whose key collides with an existing one overwrites the prior element at
// that key (keeping its insertion position).
//
// Keys are never persisted: serializing flattens the set to an ordered
// element sequence, and decoding re-derives every key.
type Set[E Serializable] struct {
	cfg   SetConfig[E]
	keys  []string
	elems map[string]E
}

// NewSet creates a set with the given configuration, adding the initial
// elements in order through the keying logic. The configuration is
// validated before any element is accepted.
func NewSet[E Serializable](cfg SetConfig[E], elems ...E) (*Set[E], error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Set[E]{cfg: cfg, elems: make(map[string]E)}
	for _, e := range elems {
		s.Add(e)
	}
	return s, nil
}

// SetOf creates a set from an untyped element slice, asserting every
// element to the declared element type. A single mismatched element rejects
// the whole construction.
func SetOf[E Serializable](cfg SetConfig[E], elems []Serializable) (*Set[E], error) {
	typed := make([]E, 0, len(elems))
	for _, raw := range elems {
		e, ok := raw.(E)
		if !ok {
			return nil, fmt.Errorf("%w: set %s expects elements of type %s but found %s",
				ErrTypeMismatch, cfg.TypeName, cfg.ElementType, raw.TypeName())
		}
		typed = append(typed, e)
	}
	return NewSet(cfg, typed...)
}

func (s *Set[E]) setKind() {}

// Config returns the set's configuration.
func (s *Set[E]) Config() SetConfig[E] {
	return s.cfg
}

// TypeName returns the concrete set type's fully-qualified name.
func (s *Set[E]) TypeName() string {
	return s.cfg.TypeName
}

// Fields exposes the element sequence as the set's single persisted
// attribute; decode goes through UnmarshalDocument.
func (s *Set[E]) Fields() []Field {
	return []Field{{
		Name: s.cfg.ElementsKey,
		Get: func() any {
			out := make([]any, len(s.keys))
			for i, k := range s.keys {
				out[i] = s.elems[k]
			}
			return out
		},
	}}
}

// Len returns the number of elements.
func (s *Set[E]) Len() int {
	return len(s.keys)
}

// Clear removes all elements.
func (s *Set[E]) Clear() {
	s.keys = nil
	s.elems = make(map[string]E)
}

// Keys returns the keys in insertion order.
func (s *Set[E]) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Elements returns the elements in insertion order. The slice is a copy;
// the elements are shared.
func (s *Set[E]) Elements() []E {
	out := make([]E, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.elems[k]
	}
	return out
}

// Key derives the set key for an element: the value of the configured key
// attribute, or a fresh surrogate key when that value is empty or absent.
func (s *Set[E]) Key(e E) string {
	raw, ok := GetField(e, s.cfg.KeyAttr)
	if !ok {
		return uuid.NewString()
	}
	key, usable := keyString(raw)
	if !usable {
		return uuid.NewString()
	}
	return key
}

// Add inserts an element under its derived key, overwriting any prior
// element at that key.
func (s *Set[E]) Add(e E) {
	key := s.Key(e)
	if _, exists := s.elems[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.elems[key] = e
}

// AddSet inserts the other set's elements under their existing keys
// (surrogate keys included), overwriting on collision. The other set is
// not mutated.
func (s *Set[E]) AddSet(other *Set[E]) {
	for _, k := range other.keys {
		if _, exists := s.elems[k]; !exists {
			s.keys = append(s.keys, k)
		}
		s.elems[k] = other.elems[k]
	}
}

// Get returns the element stored under key.
func (s *Set[E]) Get(key string) (E, bool) {
	e, ok := s.elems[key]
	return e, ok
}

// Contains reports whether an element is stored under key.
func (s *Set[E]) Contains(key string) bool {
	_, ok := s.elems[key]
	return ok
}

// Delete removes the element stored under key, reporting whether one was
// present.
func (s *Set[E]) Delete(key string) bool {
	if _, ok := s.elems[key]; !ok {
		return false
	}
	delete(s.elems, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// DeleteKeys removes the elements stored under the given keys; keys not in
// the set are ignored.
func (s *Set[E]) DeleteKeys(keys []string) {
	for _, k := range keys {
		s.Delete(k)
	}
}

// KeepKeys retains only the elements stored under the given keys,
// preserving insertion order.
func (s *Set[E]) KeepKeys(keys []string) {
	keep := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	kept := s.keys[:0:0]
	for _, k := range s.keys {
		if _, ok := keep[k]; ok {
			kept = append(kept, k)
		} else {
			delete(s.elems, k)
		}
	}
	s.keys = kept
}

// ExtractKeys returns a new set holding deep copies of the elements stored
// under the given keys.
func (s *Set[E]) ExtractKeys(keys []string) (*Set[E], error) {
	out, err := s.Copy()
	if err != nil {
		return nil, err
	}
	out.KeepKeys(keys)
	return out, nil
}

// Filter removes elements not matching the filters, in place, preserving
// each surviving element's key and position.
func (s *Set[E]) Filter(filters []Predicate[E], match Match) {
	kept := s.keys[:0:0]
	for _, k := range s.keys {
		if matchElement(s.elems[k], filters, match) {
			kept = append(kept, k)
		} else {
			delete(s.elems, k)
		}
	}
	s.keys = kept
}

// Matching returns a new set holding the elements that match the filters
// under their existing keys. The elements themselves are shared with the
// receiver; use Copy for an independent set.
func (s *Set[E]) Matching(filters []Predicate[E], match Match) *Set[E] {
	out := &Set[E]{cfg: s.cfg, elems: make(map[string]E)}
	for _, k := range s.keys {
		if e := s.elems[k]; matchElement(e, filters, match) {
			out.keys = append(out.keys, k)
			out.elems[k] = e
		}
	}
	return out
}

// CountMatches returns the number of elements matching the filters.
func (s *Set[E]) CountMatches(filters []Predicate[E], match Match) int {
	n := 0
	for _, k := range s.keys {
		if matchElement(s.elems[k], filters, match) {
			n++
		}
	}
	return n
}

// SortBy stably reorders the set's insertion order by the named element
// field, keeping each key's association with its element. Elements whose
// field value is empty always sort last regardless of direction.
func (s *Set[E]) SortBy(field string, descending bool) {
	sort.SliceStable(s.keys, func(i, j int) bool {
		vi, oki := GetField(s.elems[s.keys[i]], field)
		vj, okj := GetField(s.elems[s.keys[j]], field)
		return sortsBefore(vi, oki, vj, okj, descending)
	})
}

// Copy returns a deep copy of the set. Each element is copied through its
// own serialize/decode round trip, and the existing keys, surrogate keys
// included, carry over unchanged so keys the set handed out stay valid on
// the copy.
func (s *Set[E]) Copy() (*Set[E], error) {
	out := &Set[E]{
		cfg:   s.cfg,
		keys:  make([]string, len(s.keys)),
		elems: make(map[string]E, len(s.keys)),
	}
	copy(out.keys, s.keys)
	for _, k := range s.keys {
		e, err := copyElement(&s.cfg.ContainerConfig, s.elems[k])
		if err != nil {
			return nil, fmt.Errorf("%s: element %q: %w", s.cfg.TypeName, k, err)
		}
		out.elems[k] = e
	}
	return out, nil
}

// MarshalDocument encodes the set as an ordered element sequence; keys are
// dropped and re-derived on decode. In reflective mode the concrete set
// type name and the element type name are embedded.
func (s *Set[E]) MarshalDocument(reflective bool) (*Document, error) {
	doc := NewDocument()
	if reflective {
		doc.Set(TypeKey, s.cfg.TypeName)
		doc.Set(s.cfg.ElementTypeKey, s.cfg.ElementType)
	}
	list := make([]any, len(s.keys))
	for i, k := range s.keys {
		encoded, err := Serialize(s.elems[k], reflective)
		if err != nil {
			return nil, fmt.Errorf("%s: element %q: %w", s.cfg.TypeName, k, err)
		}
		list[i] = encoded
	}
	doc.Set(s.cfg.ElementsKey, list)
	return doc, nil
}

// UnmarshalDocument rebuilds the set by replaying each decoded element
// through Add, so keys are deterministically re-derived rather than trusted
// from input. Element decoding is all-or-nothing.
func (s *Set[E]) UnmarshalDocument(doc *Document) error {
	elems, err := decodeElements(&s.cfg.ContainerConfig, doc, "set")
	if err != nil {
		return err
	}
	s.Clear()
	for _, e := range elems {
		s.Add(e)
	}
	return nil
}

// SetFromDocument decodes a reflectively-serialized set without the caller
// pre-declaring its concrete type. The document must carry both the type
// tag and the element type tag, and the tag must resolve to a set type.
func SetFromDocument(v any) (Serializable, error) {
	return collectionFromDocument(v, "set", func(sz Serializable) bool {
		_, ok := sz.(interface{ setKind() })
		return ok
	})
}
