package serial

import (
	"fmt"
	"time"
)

// TypeKey is the reserved document field carrying a value's fully-qualified
// type name in reflective mode. It is always the first field when present.
const TypeKey = "_CLS"

// Field describes one persisted attribute of a Serializable type: its
// document name, an accessor, and a mutator that coerces a decoded value
// back into the field. The mutator may be nil for fields the type decodes
// through its own DocumentUnmarshaler implementation.
type Field struct {
	Name     string
	Optional bool
	Get      func() any
	Set      func(v any) error
}

// Serializable is the capability required of every value that participates
// in the framework. Fields returns the persisted attribute descriptors in
// declaration order; that order defines both the encoded field order and
// the decode mapping.
type Serializable interface {
	TypeName() string
	Fields() []Field
}

// DocumentMarshaler is implemented by types that produce their own encoded
// document instead of the default field walk. Container and Set use this to
// embed their element-type tags and flattened element lists.
type DocumentMarshaler interface {
	MarshalDocument(reflective bool) (*Document, error)
}

// DocumentUnmarshaler is implemented by types that rebuild themselves from
// a decoded document instead of the default field-by-field population.
type DocumentUnmarshaler interface {
	UnmarshalDocument(doc *Document) error
}

// Serialize encodes a value into a document, recursing through nested
// Serializables, slices, and mappings in field order. In reflective mode
// the type identity tag is inserted as the first field so the value can be
// decoded polymorphically later.
func Serialize(v Serializable, reflective bool) (*Document, error) {
	if m, ok := v.(DocumentMarshaler); ok {
		return m.MarshalDocument(reflective)
	}
	doc := NewDocument()
	if reflective {
		doc.Set(TypeKey, v.TypeName())
	}
	for _, f := range v.Fields() {
		if f.Get == nil {
			continue
		}
		encoded, err := encodeValue(f.Get(), reflective)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", v.TypeName(), f.Name, err)
		}
		doc.Set(f.Name, encoded)
	}
	return doc, nil
}

func encodeValue(v any, reflective bool) (any, error) {
	switch t := v.(type) {
	case Serializable:
		// A nil typed pointer still satisfies the interface; it encodes
		// as null rather than dereferencing a nil receiver.
		if isNilElement(t) {
			return nil, nil
		}
		return Serialize(t, reflective)
	case *Document:
		out := NewDocument()
		for _, key := range t.keys {
			encoded, err := encodeValue(t.values[key], reflective)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out.Set(key, encoded)
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			encoded, err := encodeValue(item, reflective)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = encoded
		}
		return out, nil
	case map[string]any:
		return encodeValue(documentFromMap(t), reflective)
	case nil, bool, int, int32, int64, float32, float64, string, time.Time:
		return v, nil
	}
	// Scalar-ish values the codec knows how to render pass through; the
	// codec rejects anything else at marshal time.
	return v, nil
}

// FromDocument is the polymorphic decode entry point: the value must be a
// document carrying a type tag, which is resolved through the registry and
// stripped before the concrete type's decoder runs. Decoding a document
// with no tag fails; use Decode with the concrete type instead.
func FromDocument(v any) (Serializable, error) {
	doc, err := AsDocument(v)
	if err != nil {
		return nil, err
	}
	name, err := typeTag(doc)
	if err != nil {
		return nil, err
	}
	factory, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	instance := factory()
	body := doc.Clone()
	body.Delete(TypeKey)
	if err := decodeInstance(instance, body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return instance, nil
}

// Decode reconstructs a value of concrete type T from a parsed document.
// When the document carries a type tag, the tag is resolved through the
// registry and the resolved type must be a T; this guards against decoding
// a document through the wrong entry point. Without a tag, newT supplies
// the instance.
func Decode[T Serializable](v any, newT func() T) (T, error) {
	var zero T
	doc, err := AsDocument(v)
	if err != nil {
		return zero, err
	}

	var instance T
	body := doc
	if doc.Has(TypeKey) {
		name, err := typeTag(doc)
		if err != nil {
			return zero, err
		}
		factory, err := Resolve(name)
		if err != nil {
			return zero, err
		}
		resolved, ok := factory().(T)
		if !ok {
			return zero, fmt.Errorf("%w: type %q is not a %T", ErrTypeMismatch, name, zero)
		}
		instance = resolved
		body = doc.Clone()
		body.Delete(TypeKey)
	} else {
		instance = newT()
	}

	if err := decodeInstance(instance, body); err != nil {
		return zero, fmt.Errorf("decode %s: %w", instance.TypeName(), err)
	}
	return instance, nil
}

// DecodeInto populates an existing value from a decoded document,
// delegating to the value's own unmarshaler when it has one.
func DecodeInto(v Serializable, doc *Document) error {
	return decodeInstance(v, doc)
}

func decodeInstance(v Serializable, doc *Document) error {
	if um, ok := v.(DocumentUnmarshaler); ok {
		return um.UnmarshalDocument(doc)
	}
	for _, f := range v.Fields() {
		value, ok := doc.Get(f.Name)
		if !ok {
			if f.Optional {
				continue
			}
			return fmt.Errorf("%w %q", ErrMissingField, f.Name)
		}
		if f.Set == nil {
			continue
		}
		if err := f.Set(value); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func typeTag(doc *Document) (string, error) {
	raw, ok := doc.Get(TypeKey)
	if !ok {
		return "", ErrNoTypeTag
	}
	name, err := AsString(raw)
	if err != nil {
		return "", fmt.Errorf("type tag: %w", err)
	}
	return name, nil
}

// GetField looks up a persisted attribute by name. The second return is
// false when the type declares no such field.
func GetField(v Serializable, name string) (any, bool) {
	for _, f := range v.Fields() {
		if f.Name == name && f.Get != nil {
			return f.Get(), true
		}
	}
	return nil, false
}

// SetField assigns a persisted attribute by name through its mutator.
func SetField(v Serializable, name string, value any) error {
	for _, f := range v.Fields() {
		if f.Name != name {
			continue
		}
		if f.Set == nil {
			return fmt.Errorf("serial: field %q of %s is not settable", name, v.TypeName())
		}
		return f.Set(value)
	}
	return fmt.Errorf("serial: %s has no field %q", v.TypeName(), name)
}

// ToText renders a value as document text.
func ToText(v Serializable, pretty, reflective bool) (string, error) {
	doc, err := Serialize(v, reflective)
	if err != nil {
		return "", err
	}
	var data []byte
	if pretty {
		data, err = MarshalPretty(doc)
	} else {
		data, err = Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write serializes a value and writes it to disk.
func Write(v Serializable, path string, opts WriteOptions, reflective bool) error {
	doc, err := Serialize(v, reflective)
	if err != nil {
		return err
	}
	return WriteFile(doc, path, opts)
}

// FromText decodes a value polymorphically from document text; the text
// must carry a type tag.
func FromText(s string) (Serializable, error) {
	v, err := Parse([]byte(s))
	if err != nil {
		return nil, err
	}
	return FromDocument(v)
}

// FromFile decodes a value polymorphically from a document file; the
// document must carry a type tag.
func FromFile(path string) (Serializable, error) {
	v, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(v)
}
