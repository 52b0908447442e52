package memory

import (
	"fmt"

	"github.com/chazu/memcore/types"
)

// Region is an append-only byte buffer used as a bump allocator.
//
// Values are appended back to back with no alignment or padding, and the
// buffer never shrinks. The zero value is an empty region ready for use.
type Region struct {
	raw []byte
}

// NewRegion creates an empty region with room for capacity bytes before it
// needs to grow.
func NewRegion(capacity int) *Region {
	if capacity <= 0 {
		return &Region{}
	}
	return &Region{raw: make([]byte, 0, capacity)}
}

// RegionFromBytes creates a region holding a copy of raw.
func RegionFromBytes(raw []byte) *Region {
	r := &Region{raw: make([]byte, len(raw))}
	copy(r.raw, raw)
	return r
}

// Len returns the number of bytes allocated.
func (r *Region) Len() int { return len(r.raw) }

// IsEmpty reports whether nothing has been allocated.
func (r *Region) IsEmpty() bool { return len(r.raw) == 0 }

// Bytes returns a copy of the region contents.
func (r *Region) Bytes() []byte {
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out
}

// Allocate appends the encoding of value and returns a reference to it.
func (r *Region) Allocate(value types.DataValue) Reference {
	address := len(r.raw)
	r.raw = append(r.raw, value.Raw()...)
	return Reference{typ: value.DataType(), address: address}
}

// Dereference decodes the value ref points at. It returns false when the
// value's byte window extends past the end of the region.
//
// A type that fails to decode bytes of its own size is a gap in the type
// system, not a data error, and panics with ErrUnimplementedDecode.
func (r *Region) Dereference(ref Reference) (types.DataValue, bool) {
	if ref.room(len(r.raw)) < 0 {
		return nil, false
	}
	v, err := ref.typ.ConstructFromRaw(r.raw[ref.address : ref.address+ref.typ.Size()])
	if err != nil {
		panic(fmt.Errorf("memory: dereference %s: %w: %v", ref, ErrUnimplementedDecode, err))
	}
	return v, true
}

// Validate checks that ref lies inside the region without decoding it.
//
// The bound is strict: a value that ends exactly at the end of the region
// does not validate, even though Dereference resolves it.
func (r *Region) Validate(ref Reference) bool {
	return ref.room(len(r.raw)) > 0
}
