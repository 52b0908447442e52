// Package types defines the value capabilities the memory core consumes.
//
// A DataType describes a fixed-size byte encoding and knows how to rebuild a
// value from it. A DataValue is a typed value that can be demoted to its
// encoding and overwritten from one. The package also ships a small set of
// concrete types (primitives and named records) used by the runtime and its
// tests.
package types

import (
	"errors"
	"fmt"
)

// DataType is a type descriptor with a fixed encoded size.
type DataType interface {
	// Size is the number of bytes a value of this type occupies.
	Size() int

	// Typename is the printable name of the type.
	Typename() string

	// ConstructFromRaw decodes a freshly owned value from raw.
	// raw must be exactly Size() bytes long.
	ConstructFromRaw(raw []byte) (DataValue, error)
}

// DataValue is a typed value with a byte encoding.
type DataValue interface {
	DataType() DataType

	// Raw returns the encoding of the value. The returned slice is owned by
	// the caller.
	Raw() []byte

	// Set overwrites the value in place from its encoding.
	Set(raw []byte) error
}

var (
	// ErrSizeMismatch indicates raw bytes whose length differs from the type size.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrFieldMismatch indicates a record built from the wrong fields.
	ErrFieldMismatch = errors.New("field mismatch")
)

func checkSize(t DataType, raw []byte) error {
	if len(raw) != t.Size() {
		return fmt.Errorf("types: %s: %w: got %d bytes, want %d",
			t.Typename(), ErrSizeMismatch, len(raw), t.Size())
	}
	return nil
}

// SameType reports whether two descriptors describe the same encoding.
// Descriptors are compared by name and size.
func SameType(a, b DataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Typename() == b.Typename() && a.Size() == b.Size()
}
