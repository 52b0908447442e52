package memory

import "github.com/chazu/memcore/types"

// Allocator stores values and hands back references of type R.
type Allocator[R any] interface {
	Allocate(value types.DataValue) R
}

// Dereferencer resolves references of type R.
//
// Dereference returns a freshly decoded copy of the stored value, or false
// when the reference does not resolve. Validate performs the identity and
// bounds checks without decoding.
type Dereferencer[R any] interface {
	Dereference(ref R) (types.DataValue, bool)
	Validate(ref R) bool
}

var (
	_ Allocator[Reference]         = (*Region)(nil)
	_ Dereferencer[Reference]      = (*Region)(nil)
	_ Allocator[HeapReference]     = (*Heap)(nil)
	_ Dereferencer[HeapReference]  = (*Heap)(nil)
	_ Allocator[StackReference]    = (*Stack)(nil)
	_ Dereferencer[StackReference] = (*Stack)(nil)
	_ types.DataValue              = (*Reference)(nil)
	_ types.DataValue              = (*HeapReference)(nil)
	_ types.DataValue              = (*StackReference)(nil)
)
