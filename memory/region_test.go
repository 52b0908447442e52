package memory

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/chazu/memcore/types"
)

func assertSameValue(t *testing.T, want, got types.DataValue) {
	t.Helper()
	if got.DataType().Typename() != want.DataType().Typename() {
		t.Errorf("typename = %q, want %q", got.DataType().Typename(), want.DataType().Typename())
	}
	if !bytes.Equal(got.Raw(), want.Raw()) {
		t.Errorf("raw = %x, want %x", got.Raw(), want.Raw())
	}
}

func myStruct(t *testing.T) *types.Record {
	t.Helper()
	s := types.NewStructure("MyStruct", types.Integer, types.Integer, types.Float)
	r, err := types.NewRecord(s, types.NewInteger(40), types.NewInteger(96), types.NewFloat(40.0))
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return r
}

func TestRegionIntegerReference(t *testing.T) {
	var region Region

	original := types.NewInteger(-1415)
	ref := region.Allocate(original)
	if ref.Type().Typename() != types.Integer.Typename() {
		t.Errorf("referenced type = %q, want %q", ref.Type().Typename(), types.Integer.Typename())
	}
	if ref.DataType().Typename() != "&Integer" {
		t.Errorf("reference typename = %q, want &Integer", ref.DataType().Typename())
	}

	got, ok := region.Dereference(ref)
	if !ok {
		t.Fatal("Dereference failed")
	}
	assertSameValue(t, original, got)
}

func TestRegionRoundTrip(t *testing.T) {
	values := []types.DataValue{
		types.NewBoolean(true),
		types.NewBoolean(false),
		types.NewFloat(math.Pi),
		types.NewInteger(-1415),
		types.NewByte(77),
		types.NewArch(16584),
		types.NewWord(16584),
		types.NewQuad(998555),
		types.NewLong(8855887455),
		types.NewWide(0, math.MaxUint64),
		myStruct(t),
	}

	region := NewRegion(64)
	refs := make([]Reference, len(values))
	for i, v := range values {
		refs[i] = region.Allocate(v)
	}
	for i, v := range values {
		got, ok := region.Dereference(refs[i])
		if !ok {
			t.Fatalf("Dereference(%v) failed", refs[i])
		}
		assertSameValue(t, v, got)
	}
}

func TestRegionBumpAddresses(t *testing.T) {
	var region Region
	a := region.Allocate(types.NewInteger(1))
	b := region.Allocate(types.NewBoolean(true))
	c := region.Allocate(types.NewQuad(7))

	if a.Address() != 0 || b.Address() != 8 || c.Address() != 9 {
		t.Errorf("addresses = %d, %d, %d; want 0, 8, 9", a.Address(), b.Address(), c.Address())
	}
	if region.Len() != 13 {
		t.Errorf("Len() = %d, want 13", region.Len())
	}
}

func TestRegionDereferenceIsACopy(t *testing.T) {
	var region Region
	ref := region.Allocate(types.NewInteger(10))

	v, _ := region.Dereference(ref)
	if err := v.Set(types.NewInteger(99).Raw()); err != nil {
		t.Fatal(err)
	}

	again, _ := region.Dereference(ref)
	if again.(*types.Primitive).Int() != 10 {
		t.Errorf("stored value changed to %v", again)
	}
}

func TestRegionOutOfBounds(t *testing.T) {
	var region Region
	region.Allocate(types.NewQuad(1))

	if _, ok := region.Dereference(NewReference(types.Integer, 0)); ok {
		t.Error("8-byte read from a 4-byte region should fail")
	}
	if _, ok := region.Dereference(NewReference(types.Byte, 4)); ok {
		t.Error("read past the end should fail")
	}
	if _, ok := region.Dereference(NewReference(types.Byte, -1)); ok {
		t.Error("negative address should fail")
	}
}

func TestRegionHugeAddress(t *testing.T) {
	var region Region
	region.Allocate(types.NewInteger(1))
	region.Allocate(types.NewInteger(2))

	for _, address := range []int{math.MaxInt, math.MaxInt - 7, region.Len() + 1} {
		ref := NewReference(types.Integer, address)
		if region.Validate(ref) {
			t.Errorf("Validate(%v) = true", ref)
		}
		if _, ok := region.Dereference(ref); ok {
			t.Errorf("Dereference(%v) succeeded", ref)
		}
	}
}

func TestRegionValidateBoundary(t *testing.T) {
	var region Region
	first := region.Allocate(types.NewInteger(1))
	last := region.Allocate(types.NewInteger(2))

	if !region.Validate(first) {
		t.Error("first value should validate")
	}

	// The tail value fails the strict bound but still dereferences.
	if region.Validate(last) {
		t.Error("value ending exactly at the end of the region should not validate")
	}
	if _, ok := region.Dereference(last); !ok {
		t.Error("value ending exactly at the end of the region should dereference")
	}
}

type brokenType struct{}

func (brokenType) Size() int        { return 2 }
func (brokenType) Typename() string { return "Broken" }
func (brokenType) ConstructFromRaw([]byte) (types.DataValue, error) {
	return nil, errors.New("no decoder")
}

func TestRegionUnimplementedDecodePanics(t *testing.T) {
	region := RegionFromBytes([]byte{1, 2, 3})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnimplementedDecode) {
			t.Fatalf("recover() = %v, want ErrUnimplementedDecode", r)
		}
	}()
	region.Dereference(NewReference(brokenType{}, 0))
}

func TestRegionBytesIsACopy(t *testing.T) {
	region := RegionFromBytes([]byte{1, 2})
	b := region.Bytes()
	b[0] = 9
	if region.Bytes()[0] != 1 {
		t.Error("Bytes() aliases the region buffer")
	}
	if region.IsEmpty() || !(&Region{}).IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestNestedReferenceInRegion(t *testing.T) {
	var region Region
	inner := region.Allocate(types.NewInteger(7))
	outer := region.Allocate(&inner)

	if outer.Type().Typename() != "&Integer" {
		t.Fatalf("outer type = %q, want &Integer", outer.Type().Typename())
	}
	v, ok := region.Dereference(outer)
	if !ok {
		t.Fatal("Dereference(outer) failed")
	}
	decoded := v.(*Reference)
	if decoded.Address() != inner.Address() {
		t.Errorf("decoded address = %d, want %d", decoded.Address(), inner.Address())
	}

	target, ok := region.Dereference(*decoded)
	if !ok || target.(*types.Primitive).Int() != 7 {
		t.Errorf("following the nested reference gave %v, %v", target, ok)
	}
}

func TestAreaDirectory(t *testing.T) {
	area := NewArea()
	if _, ok := area.Get("globals"); ok {
		t.Fatal("empty area should have no regions")
	}

	first := NewRegion(0)
	first.Allocate(types.NewInteger(1))
	if prev, ok := area.Set("globals", first); ok || prev != nil {
		t.Errorf("Set on a new label displaced %v", prev)
	}

	second := NewRegion(0)
	prev, ok := area.Set("globals", second)
	if !ok || prev != first {
		t.Errorf("Set should return the displaced region")
	}
	area.Set("constants", NewRegion(0))

	if got, ok := area.Get("globals"); !ok || got != second {
		t.Error("Get should return the current occupant")
	}
	if labels := area.Labels(); len(labels) != 2 || labels[0] != "constants" || labels[1] != "globals" {
		t.Errorf("Labels() = %v", labels)
	}

	taken, ok := area.Take("globals")
	if !ok || taken != second {
		t.Error("Take should return the region")
	}
	if _, ok := area.Get("globals"); ok {
		t.Error("Take should remove the label")
	}
	if _, ok := area.Take("globals"); ok {
		t.Error("second Take should find nothing")
	}
	if area.Len() != 1 {
		t.Errorf("Len() = %d, want 1", area.Len())
	}
}

func TestZeroAreaSet(t *testing.T) {
	var area Area
	area.Set("x", nil)
	if _, ok := area.Get("x"); !ok {
		t.Error("zero Area should accept Set")
	}
}
