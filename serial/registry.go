package serial

import (
	"fmt"
	"sync"
)

// The registry maps fully-qualified type names to factories. It backs
// reflective decode: a document tagged with a type name can only be
// reconstructed if that name was registered beforehand, normally from an
// init function alongside the type definition.

var registry = struct {
	sync.RWMutex
	factories map[string]func() Serializable
}{factories: make(map[string]func() Serializable)}

// Register associates a fully-qualified type name with a factory producing
// a fresh, decodable instance. It panics on an empty name, a nil factory,
// or a duplicate registration, all of which indicate programmer error at
// init time.
func Register(name string, factory func() Serializable) {
	if name == "" {
		panic("serial: Register called with empty type name")
	}
	if factory == nil {
		panic(fmt.Sprintf("serial: Register called with nil factory for %q", name))
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic(fmt.Sprintf("serial: type %q registered twice", name))
	}
	registry.factories[name] = factory
}

// Resolve returns the factory registered under the given type name.
func Resolve(name string) (func() Serializable, error) {
	registry.RLock()
	defer registry.RUnlock()
	factory, ok := registry.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	return factory, nil
}

// Registered reports whether a type name has been registered.
func Registered(name string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.factories[name]
	return ok
}
