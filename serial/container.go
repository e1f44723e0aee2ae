package serial

import (
	"fmt"
	"reflect"
	"sort"
)

const (
	// DefaultElementsKey is the document field that stores a collection's
	// element list unless the concrete type overrides it.
	DefaultElementsKey = "elements"

	// DefaultElementTypeKey is the reserved document field that records a
	// collection's element type name in reflective mode. Concrete types
	// may override it.
	DefaultElementTypeKey = "_ELEMENT_CLS"
)

// ContainerConfig fixes the per-concrete-type settings of a Container: the
// concrete collection type's name, the declared element type's name and
// factory, and the document keys used on the wire. It is validated once at
// construction.
type ContainerConfig[E Serializable] struct {
	// TypeName is the fully-qualified name of the concrete container type.
	TypeName string
	// ElementType is the fully-qualified name of the declared element type.
	ElementType string
	// NewElement produces a fresh decodable element instance.
	NewElement func() E
	// ElementsKey is the document field storing the element list.
	// Defaults to "elements".
	ElementsKey string
	// ElementTypeKey is the document field storing the element type name
	// in reflective mode. Defaults to "_ELEMENT_CLS".
	ElementTypeKey string
}

func (cfg *ContainerConfig[E]) normalize() {
	if cfg.ElementsKey == "" {
		cfg.ElementsKey = DefaultElementsKey
	}
	if cfg.ElementTypeKey == "" {
		cfg.ElementTypeKey = DefaultElementTypeKey
	}
}

func (cfg *ContainerConfig[E]) validate(kind string) error {
	if cfg.TypeName == "" {
		return fmt.Errorf("serial: cannot construct a %s with no type name", kind)
	}
	if cfg.ElementType == "" {
		return fmt.Errorf("serial: %s %s declares no element type", kind, cfg.TypeName)
	}
	if cfg.NewElement == nil {
		return fmt.Errorf("serial: %s %s has no element factory", kind, cfg.TypeName)
	}
	if isNilElement(cfg.NewElement()) {
		return fmt.Errorf("serial: element factory of %s %s produced nil", kind, cfg.TypeName)
	}
	return nil
}

func isNilElement(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Container is an ordered, index-addressable, homogeneous sequence of
// Serializable elements. Element order is meaningful and preserved across
// encode and decode. Homogeneity is fixed by the type parameter and checked
// at runtime wherever elements arrive untyped (bulk construction from a
// mixed slice, and every decode path).
//
// Containers are not safe for concurrent mutation; Copy is the sanctioned
// way to hand one to another goroutine.
type Container[E Serializable] struct {
	cfg      ContainerConfig[E]
	elements []E
}

// NewContainer creates a container with the given configuration and initial
// elements. The configuration is validated before any element is accepted.
func NewContainer[E Serializable](cfg ContainerConfig[E], elems ...E) (*Container[E], error) {
	cfg.normalize()
	if err := cfg.validate("container"); err != nil {
		return nil, err
	}
	c := &Container[E]{cfg: cfg}
	c.elements = append(c.elements, elems...)
	return c, nil
}

// ContainerOf creates a container from an untyped element slice, asserting
// every element to the declared element type. A single mismatched element
// rejects the whole construction.
func ContainerOf[E Serializable](cfg ContainerConfig[E], elems []Serializable) (*Container[E], error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	typed := make([]E, 0, len(elems))
	for _, raw := range elems {
		e, ok := raw.(E)
		if !ok {
			return nil, fmt.Errorf("%w: container %s expects elements of type %s but found %s",
				ErrTypeMismatch, cfg.TypeName, cfg.ElementType, raw.TypeName())
		}
		typed = append(typed, e)
	}
	c.elements = typed
	return c, nil
}

func (c *Container[E]) containerKind() {}

// Config returns the container's configuration.
func (c *Container[E]) Config() ContainerConfig[E] {
	return c.cfg
}

// TypeName returns the concrete container type's fully-qualified name.
func (c *Container[E]) TypeName() string {
	return c.cfg.TypeName
}

// Fields exposes the element list as the container's single persisted
// attribute. Decode goes through UnmarshalDocument instead, so the field
// carries no mutator.
func (c *Container[E]) Fields() []Field {
	return []Field{{
		Name: c.cfg.ElementsKey,
		Get: func() any {
			out := make([]any, len(c.elements))
			for i, e := range c.elements {
				out[i] = e
			}
			return out
		},
	}}
}

// Len returns the number of elements.
func (c *Container[E]) Len() int {
	return len(c.elements)
}

// Clear removes all elements.
func (c *Container[E]) Clear() {
	c.elements = nil
}

// Elements returns the elements in order. The slice is a copy; the
// elements are shared.
func (c *Container[E]) Elements() []E {
	out := make([]E, len(c.elements))
	copy(out, c.elements)
	return out
}

// At returns the element at index i.
func (c *Container[E]) At(i int) E {
	return c.elements[i]
}

// ReplaceAt replaces the element at index i.
func (c *Container[E]) ReplaceAt(i int, e E) {
	c.elements[i] = e
}

// Add appends an element. The element type is fixed by the type parameter,
// so no runtime re-validation happens here; untyped values go through
// ContainerOf or the decode path, which do check.
func (c *Container[E]) Add(e E) {
	c.elements = append(c.elements, e)
}

// AddContainer appends the other container's elements in order, leaving the
// other container untouched.
func (c *Container[E]) AddContainer(other *Container[E]) {
	c.elements = append(c.elements, other.elements...)
}

// Filter removes elements not matching the filters, in place.
func (c *Container[E]) Filter(filters []Predicate[E], match Match) {
	kept := c.elements[:0:0]
	for _, e := range c.elements {
		if matchElement(e, filters, match) {
			kept = append(kept, e)
		}
	}
	c.elements = kept
}

// Matching returns a new container holding the elements that match the
// filters. The elements themselves are shared with the receiver; use Copy
// for an independent container.
func (c *Container[E]) Matching(filters []Predicate[E], match Match) *Container[E] {
	out := &Container[E]{cfg: c.cfg}
	for _, e := range c.elements {
		if matchElement(e, filters, match) {
			out.elements = append(out.elements, e)
		}
	}
	return out
}

// CountMatches returns the number of elements matching the filters.
func (c *Container[E]) CountMatches(filters []Predicate[E], match Match) int {
	n := 0
	for _, e := range c.elements {
		if matchElement(e, filters, match) {
			n++
		}
	}
	return n
}

// DeleteIndices removes the elements at the given indices, processing them
// from highest to lowest so earlier indices stay valid.
func (c *Container[E]) DeleteIndices(indices []int) error {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		if idx < 0 || idx >= len(c.elements) {
			return fmt.Errorf("serial: index %d out of range [0,%d)", idx, len(c.elements))
		}
		c.elements = append(c.elements[:idx], c.elements[idx+1:]...)
	}
	return nil
}

// KeepIndices retains only the elements at the given indices, preserving
// their order.
func (c *Container[E]) KeepIndices(indices []int) {
	keep := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		keep[idx] = struct{}{}
	}
	kept := c.elements[:0:0]
	for i, e := range c.elements {
		if _, ok := keep[i]; ok {
			kept = append(kept, e)
		}
	}
	c.elements = kept
}

// ExtractIndices returns a new container holding deep copies of the
// elements at the given indices.
func (c *Container[E]) ExtractIndices(indices []int) (*Container[E], error) {
	out, err := c.Copy()
	if err != nil {
		return nil, err
	}
	out.KeepIndices(indices)
	return out, nil
}

// SortBy stably sorts the elements by the named field. Elements whose field
// value is empty always sort last regardless of direction.
func (c *Container[E]) SortBy(field string, descending bool) {
	sort.SliceStable(c.elements, func(i, j int) bool {
		vi, oki := GetField(c.elements[i], field)
		vj, okj := GetField(c.elements[j], field)
		return sortsBefore(vi, oki, vj, okj, descending)
	})
}

// Copy returns a deep copy of the container, produced by a serialize/decode
// round trip. Elements whose dynamic type differs from the declared element
// type must be registered for the round trip to resolve them.
func (c *Container[E]) Copy() (*Container[E], error) {
	doc, err := c.MarshalDocument(true)
	if err != nil {
		return nil, err
	}
	out := &Container[E]{cfg: c.cfg}
	if err := out.UnmarshalDocument(doc); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalDocument encodes the container. In reflective mode the concrete
// container type name and the element type name are embedded so the
// document can be decoded through the generic container entry point.
func (c *Container[E]) MarshalDocument(reflective bool) (*Document, error) {
	doc := NewDocument()
	if reflective {
		doc.Set(TypeKey, c.cfg.TypeName)
		doc.Set(c.cfg.ElementTypeKey, c.cfg.ElementType)
	}
	list := make([]any, len(c.elements))
	for i, e := range c.elements {
		encoded, err := Serialize(e, reflective)
		if err != nil {
			return nil, fmt.Errorf("%s: element %d: %w", c.cfg.TypeName, i, err)
		}
		list[i] = encoded
	}
	doc.Set(c.cfg.ElementsKey, list)
	return doc, nil
}

// UnmarshalDocument rebuilds the container from a decoded document by
// replaying its element list. Element decoding is all-or-nothing: a single
// failure leaves the container unchanged.
func (c *Container[E]) UnmarshalDocument(doc *Document) error {
	elems, err := decodeElements(&c.cfg, doc, "container")
	if err != nil {
		return err
	}
	c.elements = elems
	return nil
}

// decodeElements is the shared decode path of Container and Set: it
// enforces the reflective tag pairing, resolves the element decoder, and
// replays the element list.
func decodeElements[E Serializable](cfg *ContainerConfig[E], doc *Document, kind string) ([]E, error) {
	if doc.Has(TypeKey) && !doc.Has(cfg.ElementTypeKey) {
		return nil, fmt.Errorf(
			"serial: cannot reflectively decode %s %s: expected field %q was not found",
			kind, cfg.TypeName, cfg.ElementTypeKey)
	}

	newElement := cfg.NewElement
	if raw, ok := doc.Get(cfg.ElementTypeKey); ok {
		name, err := AsString(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", cfg.ElementTypeKey, err)
		}
		if name != cfg.ElementType {
			newElement, err = resolveElementFactory[E](name, cfg.ElementType)
			if err != nil {
				return nil, err
			}
		}
	}

	raw, ok := doc.Get(cfg.ElementsKey)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingField, cfg.ElementsKey)
	}
	list, err := AsList(raw)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", cfg.ElementsKey, err)
	}

	elems := make([]E, 0, len(list))
	for i, item := range list {
		itemDoc, err := AsDocument(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		e, err := decodeElement(cfg, itemDoc, newElement)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems = append(elems, e)
	}
	return elems, nil
}

// decodeElement decodes one element document. A per-element type tag, when
// present, overrides the declared element decoder so subtype elements
// survive the round trip.
func decodeElement[E Serializable](cfg *ContainerConfig[E], doc *Document, newElement func() E) (E, error) {
	var zero E
	factory := newElement
	body := doc
	if doc.Has(TypeKey) {
		name, err := typeTag(doc)
		if err != nil {
			return zero, err
		}
		if name != cfg.ElementType {
			factory, err = resolveElementFactory[E](name, cfg.ElementType)
			if err != nil {
				return zero, err
			}
		}
		body = doc.Clone()
		body.Delete(TypeKey)
	}
	e := factory()
	if err := decodeInstance(e, body); err != nil {
		return zero, err
	}
	return e, nil
}

// copyElement deep-copies one element through its own serialize/decode
// round trip, honoring a subtype's element tag.
func copyElement[E Serializable](cfg *ContainerConfig[E], e E) (E, error) {
	var zero E
	doc, err := Serialize(e, true)
	if err != nil {
		return zero, err
	}
	return decodeElement(cfg, doc, cfg.NewElement)
}

func resolveElementFactory[E Serializable](name, declared string) (func() E, error) {
	factory, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	if _, ok := factory().(E); !ok {
		return nil, fmt.Errorf("%w: element type %q is not a %s", ErrTypeMismatch, name, declared)
	}
	return func() E {
		e, _ := factory().(E)
		return e
	}, nil
}

// ContainerFromDocument decodes a reflectively-serialized container without
// the caller pre-declaring its concrete type. The document must carry both
// the type tag and the element type tag, and the tag must resolve to a
// container type.
func ContainerFromDocument(v any) (Serializable, error) {
	return collectionFromDocument(v, "container", func(s Serializable) bool {
		_, ok := s.(interface{ containerKind() })
		return ok
	})
}

func collectionFromDocument(v any, kind string, isKind func(Serializable) bool) (Serializable, error) {
	doc, err := AsDocument(v)
	if err != nil {
		return nil, err
	}
	name, err := typeTag(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode via the concrete %s type instead", err, kind)
	}
	factory, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	instance := factory()
	if !isKind(instance) {
		return nil, fmt.Errorf("%w: type %q is not a %s", ErrTypeMismatch, name, kind)
	}
	um, ok := instance.(DocumentUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: type %q cannot decode documents", ErrTypeMismatch, name)
	}
	if err := um.UnmarshalDocument(doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return instance, nil
}
