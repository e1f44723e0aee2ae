package serial

import "errors"

var (
	// ErrNoTypeTag indicates a polymorphic decode was requested on a
	// document that does not carry a type identity tag.
	ErrNoTypeTag = errors.New("serial: document carries no type tag")

	// ErrUnknownType indicates a type name could not be resolved through
	// the registry.
	ErrUnknownType = errors.New("serial: unknown type")

	// ErrMissingField indicates a required field was absent from a document
	// during decode.
	ErrMissingField = errors.New("serial: missing required field")

	// ErrTypeMismatch indicates an element or decoded value did not have
	// the expected type.
	ErrTypeMismatch = errors.New("serial: type mismatch")
)
