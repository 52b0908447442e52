package memory

import (
	"fmt"

	"github.com/chazu/memcore/types"
)

// Stack holds one region per active call frame.
//
// Frames are identified by position only. Once a frame is popped, references
// allocated in it no longer validate, but a later push to the same depth
// makes them resolve again against the new frame's bytes. Unlike heap
// generations, levels are reused.
type Stack struct {
	frames []*Region
	opts   Options
}

// NewStack creates an empty stack with default options.
func NewStack() *Stack {
	return NewStackWithOptions(DefaultOptions())
}

// NewStackWithOptions creates an empty stack.
func NewStackWithOptions(opts Options) *Stack {
	return &Stack{opts: opts}
}

// NewStackFrom creates a stack holding frames, bottom first. Nil entries
// become fresh, empty frames.
func NewStackFrom(frames []*Region, opts Options) *Stack {
	s := &Stack{frames: make([]*Region, len(frames)), opts: opts}
	for i, f := range frames {
		if f == nil {
			f = &Region{}
		}
		s.frames[i] = f
	}
	return s
}

// Push enters a frame. A nil region pushes a fresh, empty one.
func (s *Stack) Push(region *Region) error {
	if s.opts.MaxStackDepth > 0 && len(s.frames) >= s.opts.MaxStackDepth {
		return fmt.Errorf("memory: push frame %d: %w", len(s.frames), ErrStackOverflow)
	}
	if region == nil {
		region = &Region{}
	}
	s.frames = append(s.frames, region)
	log.Debugf("pushed frame %d", len(s.frames)-1)
	return nil
}

// Pop exits the top frame and hands its region back to the caller.
func (s *Stack) Pop() (*Region, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	log.Debugf("popped frame %d (%d bytes)", len(s.frames), top.Len())
	return top, true
}

// Depth returns the number of frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Top returns the top frame.
func (s *Stack) Top() (*Region, bool) {
	return s.Frame(len(s.frames) - 1)
}

// Frame returns the frame at level.
func (s *Stack) Frame(level int) (*Region, bool) {
	if level < 0 || level >= len(s.frames) {
		return nil, false
	}
	return s.frames[level], true
}

// Allocate stores value in the top frame. Allocating with no frame pushed
// is a programming error and panics with ErrNoFrame.
func (s *Stack) Allocate(value types.DataValue) StackReference {
	top, ok := s.Top()
	if !ok {
		panic(fmt.Errorf("memory: stack allocate: %w", ErrNoFrame))
	}
	ref := top.Allocate(value)
	return StackReference{level: len(s.frames) - 1, reference: ref}
}

// Dereference decodes the value ref points at in the frame at its level.
func (s *Stack) Dereference(ref StackReference) (types.DataValue, bool) {
	frame, ok := s.Frame(ref.level)
	if !ok {
		return nil, false
	}
	return frame.Dereference(ref.reference)
}

// Validate reports whether a frame exists at ref's level. It does not check
// bounds inside the frame.
func (s *Stack) Validate(ref StackReference) bool {
	return ref.level >= 0 && ref.level < len(s.frames)
}

// ---------------------------------------------------------------------------
// StackReference
// ---------------------------------------------------------------------------

// StackReference locates a value inside the frame at a given depth.
type StackReference struct {
	level     int
	reference Reference
}

// NewStackReference creates a reference into the frame at level.
func NewStackReference(level int, ref Reference) StackReference {
	return StackReference{level: level, reference: ref}
}

// Level returns the depth of the frame the value was allocated in.
func (r StackReference) Level() int { return r.level }

// Reference returns the in-frame reference.
func (r StackReference) Reference() Reference { return r.reference }

func (r StackReference) DataType() types.DataType {
	return StackReferenceType{Inner: r.reference.typ}
}

// Raw returns the 16-byte tagged encoding.
func (r StackReference) Raw() []byte {
	enc := EncodeTagged(r.level, r.reference.address)
	return enc[:]
}

// Set overwrites level and address from the 16-byte encoding, keeping the
// inner type.
func (r *StackReference) Set(raw []byte) error {
	level, address, err := DecodeTagged(raw)
	if err != nil {
		return err
	}
	r.level = level
	r.reference.address = address
	return nil
}

func (r StackReference) String() string {
	return fmt.Sprintf("$%d%s", r.level, r.reference)
}

// StackReferenceType is the type of a StackReference to a value of type
// Inner. Its name carries no level since levels are relative to call depth.
type StackReferenceType struct {
	Inner types.DataType
}

func (t StackReferenceType) Size() int        { return TaggedSize }
func (t StackReferenceType) Typename() string { return "$&" + typename(t.Inner) }

func (t StackReferenceType) ConstructFromRaw(raw []byte) (types.DataValue, error) {
	r := &StackReference{reference: Reference{typ: t.Inner}}
	if err := r.Set(raw); err != nil {
		return nil, err
	}
	return r, nil
}
