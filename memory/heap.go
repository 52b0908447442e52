package memory

import (
	"fmt"

	"github.com/chazu/memcore/types"
)

// Heap is an append-only table of generations, each holding one region.
//
// A generation is alive from NextGeneration until Clear drops it; dropping
// discards the region and every value stored in it at once. Generation ids
// are never reused, so a stale HeapReference can never resolve into a newer
// region that happens to share its id.
type Heap struct {
	// slots[g] is the region of generation g, or nil once g is dropped.
	slots   []*Region
	current int
	opts    Options
}

// NewHeap creates an empty heap with default options.
func NewHeap() *Heap {
	return NewHeapWithOptions(DefaultOptions())
}

// NewHeapWithOptions creates an empty heap.
func NewHeapWithOptions(opts Options) *Heap {
	return &Heap{current: -1, opts: opts}
}

// RestoreHeap rebuilds a heap from captured generations. A nil entry marks a
// dropped generation. current is the current generation, or -1 for none.
func RestoreHeap(generations []*Region, current int, opts Options) (*Heap, error) {
	if current < -1 || current >= len(generations) {
		return nil, fmt.Errorf("memory: restore heap: current %d of %d: %w",
			current, len(generations), ErrUnknownGeneration)
	}
	if current >= 0 && generations[current] == nil {
		return nil, fmt.Errorf("memory: restore heap: generation %d: %w", current, ErrDroppedGeneration)
	}
	h := &Heap{slots: make([]*Region, len(generations)), current: current, opts: opts}
	copy(h.slots, generations)
	return h, nil
}

// CurrentGeneration returns the generation new allocations go to.
func (h *Heap) CurrentGeneration() (int, bool) {
	return h.current, h.current >= 0
}

// NextGeneration opens a new generation, makes it current and returns its
// region for inspection.
func (h *Heap) NextGeneration() *Region {
	region := NewRegion(h.opts.RegionCapacity)
	h.current = len(h.slots)
	h.slots = append(h.slots, region)
	log.Debugf("opened generation %d", h.current)
	return region
}

// Clear drops a generation. The current generation is not changed, and a
// dropped generation stays dropped.
func (h *Heap) Clear(generation int) error {
	if generation < 0 || generation >= len(h.slots) {
		return fmt.Errorf("memory: clear generation %d: %w", generation, ErrUnknownGeneration)
	}
	if h.slots[generation] != nil {
		log.Debugf("dropped generation %d (%d bytes)", generation, h.slots[generation].Len())
		h.slots[generation] = nil
	}
	return nil
}

// IsAlive reports whether generation was opened and not yet dropped.
func (h *Heap) IsAlive(generation int) bool {
	return generation >= 0 && generation < len(h.slots) && h.slots[generation] != nil
}

// Len returns the number of generations ever opened.
func (h *Heap) Len() int { return len(h.slots) }

// LiveGenerations returns the number of generations not yet dropped.
func (h *Heap) LiveGenerations() int {
	n := 0
	for _, r := range h.slots {
		if r != nil {
			n++
		}
	}
	return n
}

// Region returns the region of a live generation.
func (h *Heap) Region(generation int) (*Region, bool) {
	if !h.IsAlive(generation) {
		return nil, false
	}
	return h.slots[generation], true
}

// Allocate stores value in the current generation. With lazy generation
// enabled, the first Allocate on an empty heap opens generation 0.
func (h *Heap) Allocate(value types.DataValue) HeapReference {
	if h.current < 0 {
		if !h.opts.LazyGeneration {
			panic(fmt.Errorf("memory: heap allocate: %w", ErrNoGeneration))
		}
		h.NextGeneration()
	}
	region := h.slots[h.current]
	if region == nil {
		panic(fmt.Errorf("memory: heap allocate into generation %d: %w", h.current, ErrDroppedGeneration))
	}
	return HeapReference{generation: h.current, reference: region.Allocate(value)}
}

// Dereference decodes the value ref points at, or returns false if its
// generation is unknown or dropped, or the value is out of bounds.
func (h *Heap) Dereference(ref HeapReference) (types.DataValue, bool) {
	region, ok := h.Region(ref.generation)
	if !ok {
		return nil, false
	}
	return region.Dereference(ref.reference)
}

// Validate reports whether ref's generation is alive and its value lies in
// bounds, using the same strict bound as Region.Validate.
func (h *Heap) Validate(ref HeapReference) bool {
	region, ok := h.Region(ref.generation)
	if !ok {
		return false
	}
	return region.Validate(ref.reference)
}

// ---------------------------------------------------------------------------
// HeapReference
// ---------------------------------------------------------------------------

// HeapReference locates a value inside a heap generation.
type HeapReference struct {
	generation int
	reference  Reference
}

// NewHeapReference creates a reference into generation.
func NewHeapReference(generation int, ref Reference) HeapReference {
	return HeapReference{generation: generation, reference: ref}
}

// Generation returns the generation the value was allocated in.
func (r HeapReference) Generation() int { return r.generation }

// Reference returns the in-region reference.
func (r HeapReference) Reference() Reference { return r.reference }

func (r HeapReference) DataType() types.DataType {
	return HeapReferenceType{Generation: r.generation, Inner: r.reference.typ}
}

// Raw returns the 16-byte tagged encoding.
func (r HeapReference) Raw() []byte {
	enc := EncodeTagged(r.generation, r.reference.address)
	return enc[:]
}

// Set overwrites generation and address from the 16-byte encoding, keeping
// the inner type.
func (r *HeapReference) Set(raw []byte) error {
	generation, address, err := DecodeTagged(raw)
	if err != nil {
		return err
	}
	r.generation = generation
	r.reference.address = address
	return nil
}

func (r HeapReference) String() string {
	return fmt.Sprintf("@%d%s", r.generation, r.reference)
}

// HeapReferenceType is the type of a HeapReference to a value of type Inner.
type HeapReferenceType struct {
	Generation int
	Inner      types.DataType
}

func (t HeapReferenceType) Size() int { return TaggedSize }

func (t HeapReferenceType) Typename() string {
	return fmt.Sprintf("@%d&%s", t.Generation, typename(t.Inner))
}

func (t HeapReferenceType) ConstructFromRaw(raw []byte) (types.DataValue, error) {
	r := &HeapReference{generation: t.Generation, reference: Reference{typ: t.Inner}}
	if err := r.Set(raw); err != nil {
		return nil, err
	}
	return r, nil
}
