package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chazu/memcore/manifest"
	"github.com/chazu/memcore/memory"
	"github.com/chazu/memcore/snapshot"
	"github.com/chazu/memcore/types"
)

type command struct {
	manifest    *manifest.Manifest
	archivePath string
	out         io.Writer
}

func (c *command) dispatch(args []string) error {
	switch args[0] {
	case "list":
		return c.withArchive(c.list)
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: show <id>")
		}
		return c.withArchive(func(a *snapshot.Archive) error { return c.show(a, args[1]) })
	case "decode":
		if len(args) != 5 {
			return fmt.Errorf("usage: decode <id> heap|stack|area <key> <offset>")
		}
		offset, err := strconv.Atoi(args[4])
		if err != nil || offset < 0 {
			return fmt.Errorf("invalid offset %q", args[4])
		}
		return c.withArchive(func(a *snapshot.Archive) error {
			return c.decode(a, args[1], args[2], args[3], offset)
		})
	case "demo":
		label := "demo"
		if len(args) > 1 {
			label = args[1]
		}
		return c.withArchive(func(a *snapshot.Archive) error { return c.demo(a, label) })
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *command) withArchive(fn func(*snapshot.Archive) error) error {
	a, err := snapshot.OpenArchive(c.archivePath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (c *command) list(a *snapshot.Archive) error {
	entries, err := a.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no snapshots")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s  %-20s %8d bytes  %s\n",
			e.ID, e.Label, e.Size, e.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func (c *command) show(a *snapshot.Archive, id string) error {
	s, err := a.Load(id)
	if err != nil {
		return err
	}

	if s.Current >= 0 {
		fmt.Fprintf(c.out, "heap: %d generations, current %d\n", len(s.Generations), s.Current)
	} else {
		fmt.Fprintf(c.out, "heap: %d generations, no current generation\n", len(s.Generations))
	}
	for g, gen := range s.Generations {
		if gen.Alive {
			fmt.Fprintf(c.out, "  @%d  alive    %d bytes\n", g, len(gen.Raw))
		} else {
			fmt.Fprintf(c.out, "  @%d  dropped\n", g)
		}
	}

	fmt.Fprintf(c.out, "stack: %d frames\n", len(s.Frames))
	for level, raw := range s.Frames {
		fmt.Fprintf(c.out, "  $%d  %d bytes\n", level, len(raw))
	}

	fmt.Fprintf(c.out, "area: %d labels\n", len(s.Areas))
	_, _, area, err := s.Restore(c.manifest.Options())
	if err != nil {
		return err
	}
	for _, label := range area.Labels() {
		region, _ := area.Get(label)
		fmt.Fprintf(c.out, "  %s  %d bytes\n", label, region.Len())
	}
	return nil
}

func (c *command) decode(a *snapshot.Archive, id, kind, key string, offset int) error {
	s, err := a.Load(id)
	if err != nil {
		return err
	}
	raw, err := s.Region(kind, key)
	if err != nil {
		return err
	}
	if offset > len(raw)-memory.TaggedSize {
		return fmt.Errorf("offset %d: %d bytes needed, region has %d", offset, memory.TaggedSize, len(raw))
	}

	tag, address, err := memory.DecodeTagged(raw[offset : offset+memory.TaggedSize])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "raw:     % x\n", raw[offset:offset+memory.TaggedSize])
	fmt.Fprintf(c.out, "tag:     %d\n", tag)
	fmt.Fprintf(c.out, "address: %d\n", address)
	return nil
}

// demo runs a small epoch workload: a loop that allocates into its own
// generation, a call frame holding a reference to the surviving value, and
// a labelled global region.
func (c *command) demo(a *snapshot.Archive, label string) error {
	opts := c.manifest.Options()
	heap := memory.NewHeapWithOptions(opts)
	stack := memory.NewStackWithOptions(opts)
	area := memory.NewArea()

	point := types.NewStructure("Point", types.Integer, types.Integer)
	heap.NextGeneration()
	var kept memory.HeapReference
	for i := 0; i < 3; i++ {
		rec, err := types.NewRecord(point, types.NewInteger(int64(i)), types.NewInteger(int64(i*i)))
		if err != nil {
			return err
		}
		kept = heap.Allocate(rec)
	}
	scratch, _ := heap.CurrentGeneration()
	heap.NextGeneration()
	heap.Allocate(types.NewFloat(3.25))
	if err := heap.Clear(scratch); err != nil {
		return err
	}

	if err := stack.Push(nil); err != nil {
		return err
	}
	stack.Allocate(types.NewInteger(-1415))
	stack.Allocate(&kept)

	globals := memory.NewRegion(opts.RegionCapacity)
	globals.Allocate(types.NewBoolean(true))
	area.Set("globals", globals)

	id, err := a.Save(label, snapshot.Capture(heap, stack, area))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, id)
	return nil
}
