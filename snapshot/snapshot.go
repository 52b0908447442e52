// Package snapshot captures and restores the state of the memory core.
//
// A Snapshot holds copies of every heap generation (alive or dropped), every
// stack frame and every labelled area region. Snapshots are encoded as
// canonical CBOR and can be kept in a SQLite archive for later inspection.
package snapshot

import (
	"fmt"

	"github.com/chazu/memcore/memory"
)

// Generation is one heap slot.
type Generation struct {
	Alive bool   `cbor:"1,keyasint"`
	Raw   []byte `cbor:"2,keyasint,omitempty"`
}

// Snapshot is a point-in-time copy of a heap, a stack and an area.
type Snapshot struct {
	Generations []Generation      `cbor:"1,keyasint"`
	Current     int               `cbor:"2,keyasint"` // -1 when no generation is open
	Frames      [][]byte          `cbor:"3,keyasint"` // bottom frame first
	Areas       map[string][]byte `cbor:"4,keyasint"`
}

// Capture copies the state of heap, stack and area. Any of them may be nil.
func Capture(heap *memory.Heap, stack *memory.Stack, area *memory.Area) *Snapshot {
	s := &Snapshot{Current: -1, Areas: make(map[string][]byte)}

	if heap != nil {
		s.Generations = make([]Generation, heap.Len())
		for g := range s.Generations {
			if region, ok := heap.Region(g); ok {
				s.Generations[g] = Generation{Alive: true, Raw: region.Bytes()}
			}
		}
		if current, ok := heap.CurrentGeneration(); ok {
			s.Current = current
		}
	}

	if stack != nil {
		s.Frames = make([][]byte, stack.Depth())
		for level := range s.Frames {
			frame, _ := stack.Frame(level)
			s.Frames[level] = frame.Bytes()
		}
	}

	if area != nil {
		for _, label := range area.Labels() {
			region, _ := area.Get(label)
			if region == nil {
				continue
			}
			s.Areas[label] = region.Bytes()
		}
	}

	return s
}

// Restore rebuilds the heap, stack and area captured in s. Generation ids
// and liveness are preserved, so references taken before the capture
// resolve against the restored heap exactly as they did against the original.
func (s *Snapshot) Restore(opts memory.Options) (*memory.Heap, *memory.Stack, *memory.Area, error) {
	generations := make([]*memory.Region, len(s.Generations))
	for g, gen := range s.Generations {
		if gen.Alive {
			generations[g] = memory.RegionFromBytes(gen.Raw)
		}
	}
	heap, err := memory.RestoreHeap(generations, s.Current, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("snapshot: %w", err)
	}

	frames := make([]*memory.Region, len(s.Frames))
	for level, raw := range s.Frames {
		frames[level] = memory.RegionFromBytes(raw)
	}
	stack := memory.NewStackFrom(frames, opts)

	area := memory.NewArea()
	for label, raw := range s.Areas {
		area.Set(label, memory.RegionFromBytes(raw))
	}

	return heap, stack, area, nil
}

// Size returns the number of stored bytes across all regions.
func (s *Snapshot) Size() int {
	n := 0
	for _, g := range s.Generations {
		n += len(g.Raw)
	}
	for _, f := range s.Frames {
		n += len(f)
	}
	for _, a := range s.Areas {
		n += len(a)
	}
	return n
}

// Region returns the bytes of a heap generation, stack frame or area label.
// kind is one of "heap", "stack" or "area".
func (s *Snapshot) Region(kind, key string) ([]byte, error) {
	switch kind {
	case "heap":
		var g int
		if _, err := fmt.Sscanf(key, "%d", &g); err != nil || g < 0 || g >= len(s.Generations) {
			return nil, fmt.Errorf("snapshot: unknown generation %q", key)
		}
		if !s.Generations[g].Alive {
			return nil, fmt.Errorf("snapshot: generation %d: %w", g, memory.ErrDroppedGeneration)
		}
		return s.Generations[g].Raw, nil
	case "stack":
		var level int
		if _, err := fmt.Sscanf(key, "%d", &level); err != nil || level < 0 || level >= len(s.Frames) {
			return nil, fmt.Errorf("snapshot: unknown stack level %q", key)
		}
		return s.Frames[level], nil
	case "area":
		raw, ok := s.Areas[key]
		if !ok {
			return nil, fmt.Errorf("snapshot: unknown area label %q", key)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("snapshot: unknown region kind %q", kind)
	}
}
