package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSplitsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.curl")
	if err := os.WriteFile(path, []byte("fun main() {\n  return;\n}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"fun main() {", "  return;", "}"}
	if len(f.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(f.Lines), len(want), f.Lines)
	}
	for i := range want {
		if f.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, f.Lines[i], want[i])
		}
	}
}

func TestLoadNoTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.curl")
	if err := os.WriteFile(path, []byte("fun f() { }"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Lines) != 1 || f.Lines[0] != "fun f() { }" {
		t.Errorf("Lines = %v", f.Lines)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.curl")
	if err == nil {
		t.Fatal("expected a user error for a missing file")
	}
	if _, ok := err.(*UserError); !ok {
		t.Errorf("error type = %T, want *UserError", err)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected a user error for a non-regular file")
	}
}
