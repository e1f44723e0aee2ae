package serial_test

import (
	"errors"
	"testing"

	"vellum/serial"
)

func TestResolveRegisteredType(t *testing.T) {
	factory, err := serial.Resolve("test.Dog")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := factory().(*Dog); !ok {
		t.Fatalf("factory produced %T", factory())
	}
}

func TestResolveUnknownType(t *testing.T) {
	_, err := serial.Resolve("test.NoSuchType")
	if !errors.Is(err, serial.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestRegistered(t *testing.T) {
	if !serial.Registered("test.Cat") {
		t.Fatal("test.Cat should be registered")
	}
	if serial.Registered("test.NoSuchType") {
		t.Fatal("unknown name reported registered")
	}
}

func TestRegisterPanics(t *testing.T) {
	mustPanic := func(t *testing.T, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		fn()
	}

	mustPanic(t, func() { serial.Register("", func() serial.Serializable { return &Dog{} }) })
	mustPanic(t, func() { serial.Register("test.NilFactory", nil) })
	mustPanic(t, func() { serial.Register("test.Dog", func() serial.Serializable { return &Dog{} }) })
}
