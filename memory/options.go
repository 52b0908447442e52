package memory

// Options configures heaps and stacks.
type Options struct {
	// RegionCapacity pre-sizes regions opened by the heap.
	RegionCapacity int

	// LazyGeneration opens generation 0 on the first Allocate when no
	// generation exists yet. When false, that Allocate panics with
	// ErrNoGeneration.
	LazyGeneration bool

	// MaxStackDepth bounds the number of frames a stack holds.
	// Zero means unbounded.
	MaxStackDepth int
}

// DefaultOptions returns the options used by NewHeap and NewStack.
func DefaultOptions() Options {
	return Options{
		LazyGeneration: true,
	}
}
