// Package memory implements the memory core of the runtime.
//
// This package contains:
//   - Region: an append-only byte buffer used as a bump allocator
//   - Area: a label-indexed directory of regions
//   - Heap: generation-tagged regions with bulk invalidation
//   - Stack: one region per call frame
//   - Reference, HeapReference and StackReference, including the 16-byte
//     tagged encoding used when references are stored as values
//
// Values enter storage as their byte encoding and leave it as freshly
// decoded copies; nothing returned by this package aliases a region's buffer.
//
// None of the types here perform any synchronization. They are not safe to
// use concurrently without external locking.
package memory
