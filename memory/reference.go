package memory

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chazu/memcore/types"
)

// ---------------------------------------------------------------------------
// Wire layout
// ---------------------------------------------------------------------------

// AddressSize is the encoded size of a bare Reference.
const AddressSize = 8

// TaggedSize is the encoded size of a HeapReference or StackReference:
// an 8-byte big-endian tag (generation or level) followed by an 8-byte
// big-endian address.
const TaggedSize = 16

func putInt(dst []byte, v int) {
	binary.BigEndian.PutUint64(dst, uint64(v))
}

func readInt(src []byte) (int, error) {
	u := binary.BigEndian.Uint64(src)
	if u > math.MaxInt {
		return 0, fmt.Errorf("memory: %d: %w", u, ErrAddressOverflow)
	}
	return int(u), nil
}

// EncodeTagged returns the 16-byte encoding of a (tag, address) pair.
func EncodeTagged(tag, address int) [TaggedSize]byte {
	var out [TaggedSize]byte
	putInt(out[:8], tag)
	putInt(out[8:], address)
	return out
}

// DecodeTagged reads a (tag, address) pair from its 16-byte encoding.
func DecodeTagged(raw []byte) (tag, address int, err error) {
	if len(raw) != TaggedSize {
		return 0, 0, fmt.Errorf("memory: got %d bytes, want %d: %w", len(raw), TaggedSize, ErrEncodingSize)
	}
	if tag, err = readInt(raw[:8]); err != nil {
		return 0, 0, err
	}
	if address, err = readInt(raw[8:]); err != nil {
		return 0, 0, err
	}
	return tag, address, nil
}

// ---------------------------------------------------------------------------
// Reference
// ---------------------------------------------------------------------------

// Reference locates a value of a known type at a byte offset inside a region.
// It does not identify the region itself.
type Reference struct {
	typ     types.DataType
	address int
}

// NewReference creates a reference to a value of type t at address.
func NewReference(t types.DataType, address int) Reference {
	return Reference{typ: t, address: address}
}

// Type returns the type of the referenced value.
func (r Reference) Type() types.DataType { return r.typ }

// Address returns the byte offset of the referenced value.
func (r Reference) Address() int { return r.address }

// DataType returns the type of the reference itself.
func (r Reference) DataType() types.DataType { return ReferenceType{Inner: r.typ} }

// Raw encodes the address as 8 big-endian bytes.
func (r Reference) Raw() []byte {
	out := make([]byte, AddressSize)
	putInt(out, r.address)
	return out
}

// Set overwrites the address from its encoding. The referenced type is kept.
func (r *Reference) Set(raw []byte) error {
	if len(raw) != AddressSize {
		return fmt.Errorf("memory: got %d bytes, want %d: %w", len(raw), AddressSize, ErrEncodingSize)
	}
	address, err := readInt(raw)
	if err != nil {
		return err
	}
	r.address = address
	return nil
}

func (r Reference) String() string {
	return fmt.Sprintf("&%s@%d", typename(r.typ), r.address)
}

// room returns how many bytes of a region of length n remain after the
// referenced value, or -1 when the value does not fit.
func (r Reference) room(n int) int {
	if r.typ == nil || r.address < 0 || r.address > n {
		return -1
	}
	return n - r.address - r.typ.Size()
}

// ReferenceType is the type of a Reference to a value of type Inner.
type ReferenceType struct {
	Inner types.DataType
}

func (t ReferenceType) Size() int        { return AddressSize }
func (t ReferenceType) Typename() string { return "&" + typename(t.Inner) }

func (t ReferenceType) ConstructFromRaw(raw []byte) (types.DataValue, error) {
	r := &Reference{typ: t.Inner}
	if err := r.Set(raw); err != nil {
		return nil, err
	}
	return r, nil
}

func typename(t types.DataType) string {
	if t == nil {
		return "?"
	}
	return t.Typename()
}
