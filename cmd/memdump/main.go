// memdump - inspect archived memory snapshots
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/memcore/manifest"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("memdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output (debug logging)")
	configDir := fs.String("config", ".", "Directory to search upwards for memory.toml")
	dbPath := fs.String("db", "", "Snapshot archive (overrides archive.path)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: memdump [options] <command> [args...]\n\n")
		fmt.Fprintf(stderr, "Inspects memory snapshots kept in a SQLite archive.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nCommands:\n")
		fmt.Fprintf(stderr, "  list                                   # List archived snapshots\n")
		fmt.Fprintf(stderr, "  show <id>                              # Print generations, frames and labels\n")
		fmt.Fprintf(stderr, "  decode <id> heap|stack|area <key> <off> # Decode a 16-byte tagged reference\n")
		fmt.Fprintf(stderr, "  demo [label]                           # Run a sample workload and archive it\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	m, err := manifest.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Log.Verbosity
	if *verbose {
		verbosity = 2
	}
	commonlog.Initialize(verbosity, m.Log.File)

	path := m.ArchivePath()
	if *dbPath != "" {
		path = *dbPath
	}

	cmd := &command{manifest: m, archivePath: path, out: stdout}
	if err := cmd.dispatch(fs.Args()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
