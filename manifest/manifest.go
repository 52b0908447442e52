// Package manifest handles memory.toml configuration.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/memcore/memory"
)

// FileName is the name of the configuration file.
const FileName = "memory.toml"

// Manifest represents a memory.toml configuration.
type Manifest struct {
	Heap    HeapConfig    `toml:"heap"`
	Stack   StackConfig   `toml:"stack"`
	Log     LogConfig     `toml:"log"`
	Archive ArchiveConfig `toml:"archive"`

	// Dir is the directory containing the memory.toml file (set at load time).
	Dir string `toml:"-"`
}

// HeapConfig configures the heap.
type HeapConfig struct {
	RegionCapacity int   `toml:"region-capacity"`
	LazyGeneration *bool `toml:"lazy-generation"`
}

// StackConfig configures the frame stack.
type StackConfig struct {
	MaxDepth int `toml:"max-depth"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// ArchiveConfig configures the snapshot archive.
type ArchiveConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no memory.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Heap.LazyGeneration == nil {
		lazy := true
		m.Heap.LazyGeneration = &lazy
	}
	if m.Archive.Path == "" {
		m.Archive.Path = "snapshots.db"
	}
}

// Load parses a memory.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if m.Heap.RegionCapacity < 0 {
		return nil, fmt.Errorf("%s: heap.region-capacity must not be negative", path)
	}
	if m.Stack.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: stack.max-depth must not be negative", path)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a memory.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Write encodes m as memory.toml in dir.
func Write(dir string, m *Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), buf.Bytes(), 0644)
}

// Options converts the heap and stack settings to memory options.
func (m *Manifest) Options() memory.Options {
	opts := memory.DefaultOptions()
	opts.RegionCapacity = m.Heap.RegionCapacity
	if m.Heap.LazyGeneration != nil {
		opts.LazyGeneration = *m.Heap.LazyGeneration
	}
	opts.MaxStackDepth = m.Stack.MaxDepth
	return opts
}

// ArchivePath returns the archive path, resolved against the manifest
// directory when relative.
func (m *Manifest) ArchivePath() string {
	if filepath.IsAbs(m.Archive.Path) || m.Dir == "" {
		return m.Archive.Path
	}
	return filepath.Join(m.Dir, m.Archive.Path)
}
