package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runMemdump(t *testing.T, db string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", t.TempDir(), "-db", db}, args...)
	code := run(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestDemoShowDecode(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, errOut, code := runMemdump(t, db, "demo", "epoch")
	if code != 0 {
		t.Fatalf("demo exited %d: %s", code, errOut)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("demo printed no snapshot id")
	}

	out, errOut, code = runMemdump(t, db, "list")
	if code != 0 {
		t.Fatalf("list exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "epoch") {
		t.Errorf("list output missing snapshot:\n%s", out)
	}

	out, errOut, code = runMemdump(t, db, "show", id)
	if code != 0 {
		t.Fatalf("show exited %d: %s", code, errOut)
	}
	for _, want := range []string{
		"heap: 2 generations, current 1",
		"@0  dropped",
		"@1  alive    8 bytes",
		"$0  24 bytes",
		"globals  1 bytes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	// The frame holds an Integer followed by a reference to the last Point
	// allocated in generation 0.
	out, errOut, code = runMemdump(t, db, "decode", id, "stack", "0", "8")
	if code != 0 {
		t.Fatalf("decode exited %d: %s", code, errOut)
	}
	if !strings.Contains(out, "tag:     0") || !strings.Contains(out, "address: 32") {
		t.Errorf("decode output:\n%s", out)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")
	out, _, _ := runMemdump(t, db, "demo")
	id := strings.TrimSpace(out)

	_, errOut, code := runMemdump(t, db, "decode", id, "stack", "0", "16")
	if code != 1 || !strings.Contains(errOut, "region has 24") {
		t.Errorf("code = %d, stderr = %q", code, errOut)
	}

	_, errOut, code = runMemdump(t, db, "decode", id, "heap", "1", "9223372036854775807")
	if code != 1 || !strings.Contains(errOut, "region has 8") {
		t.Errorf("huge offset: code = %d, stderr = %q", code, errOut)
	}
}

func TestListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")
	out, _, code := runMemdump(t, db, "list")
	if code != 0 || !strings.Contains(out, "no snapshots") {
		t.Errorf("code = %d, out = %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")
	tests := []struct {
		args []string
		code int
	}{
		{nil, 2},
		{[]string{"bogus"}, 1},
		{[]string{"show"}, 1},
		{[]string{"show", "no-such-id"}, 1},
		{[]string{"decode", "x", "heap", "0", "-3"}, 1},
	}
	for _, tt := range tests {
		if _, _, code := runMemdump(t, db, tt.args...); code != tt.code {
			t.Errorf("memdump %v exited %d, want %d", tt.args, code, tt.code)
		}
	}
}
