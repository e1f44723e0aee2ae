package serial_test

import (
	"reflect"
	"testing"

	"vellum/serial"
)

func TestDocumentPreservesInsertionOrder(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("c", 1)
	doc.Set("a", 2)
	doc.Set("b", 3)

	want := []string{"c", "a", "b"}
	if got := doc.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestDocumentOverwriteKeepsPosition(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", 1)
	doc.Set("b", 2)
	doc.Set("a", 10)

	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("keys = %v, want [a b]", got)
	}
	v, ok := doc.Get("a")
	if !ok || v != 10 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
}

func TestDocumentDelete(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", 1)
	doc.Set("b", 2)

	v, ok := doc.Delete("a")
	if !ok || v != 1 {
		t.Fatalf("Delete(a) = %v, %v", v, ok)
	}
	if doc.Has("a") {
		t.Fatal("field a still present after delete")
	}
	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("keys = %v, want [b]", got)
	}
	if _, ok := doc.Delete("a"); ok {
		t.Fatal("second delete reported a value")
	}
}

func TestDocumentCloneIsIndependent(t *testing.T) {
	doc := serial.NewDocument()
	doc.Set("a", 1)

	clone := doc.Clone()
	clone.Set("b", 2)
	clone.Delete("a")

	if !doc.Has("a") || doc.Has("b") {
		t.Fatalf("original mutated through clone: keys %v", doc.Keys())
	}
	if clone.Len() != 1 {
		t.Fatalf("clone.Len() = %d, want 1", clone.Len())
	}
}
