package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vellum/internal/fileutil"
	"vellum/serial"
)

// documentInfo summarizes one document file for inspection and cataloging.
type documentInfo struct {
	Path         string
	TypeName     string
	ElementCount int64 // -1 when the document is not a collection
	SizeBytes    int64
	ModifiedAt   time.Time
	Compressed   bool
}

func inspectDocument(path string) (*documentInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}

	v, err := serial.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	typeName, elements := describeValue(v)
	return &documentInfo{
		Path:         abs,
		TypeName:     typeName,
		ElementCount: elements,
		SizeBytes:    stat.Size(),
		ModifiedAt:   stat.ModTime().UTC(),
		Compressed:   fileutil.Compressed(abs),
	}, nil
}

// describeValue reports the embedded type tag and collection element count
// of a parsed document, using the default elements key.
func describeValue(v any) (string, int64) {
	switch value := v.(type) {
	case *serial.Document:
		var typeName string
		if raw, ok := value.Get(serial.TypeKey); ok {
			typeName, _ = serial.AsString(raw)
		}
		if raw, ok := value.Get(serial.DefaultElementsKey); ok {
			if list, err := serial.AsList(raw); err == nil {
				return typeName, int64(len(list))
			}
		}
		return typeName, -1
	case []any:
		return "", int64(len(value))
	default:
		return "", -1
	}
}

