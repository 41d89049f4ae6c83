package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWalkSkipsDefaultExclusions(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.go"), "package main\n")
	mustWrite(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "module.exports = {}\n")
	mustWrite(t, filepath.Join(root, ".git", "config"), "junk")
	mustWrite(t, filepath.Join(root, "lib", "util.py"), "def f(): pass\n")

	files, err := Walk(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	names := map[string]bool{}
	for _, f := range files {
		names[f.RelPath] = true
	}
	if !names["main.go"] || !names["lib/util.py"] {
		t.Errorf("unexpected file set: %+v", names)
	}
}

func TestWalkHonoursIgnoreFile(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "keep.go"), "package main\n")
	mustWrite(t, filepath.Join(root, "vendor_copy", "dep.go"), "package dep\n")
	mustWrite(t, filepath.Join(root, ".xrayignore"), "vendor_copy\n")

	files, err := Walk(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.go" {
		t.Fatalf("expected only keep.go, got %+v", files)
	}
}

func TestWalkSortedOutput(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "z.go"), "package main\n")
	mustWrite(t, filepath.Join(root, "a.go"), "package main\n")

	files, err := Walk(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 || files[0].RelPath != "a.go" || files[1].RelPath != "z.go" {
		t.Fatalf("expected sorted [a.go z.go], got %+v", files)
	}
}

func TestWalkDisabledLanguages(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.go"), "package main\n")
	mustWrite(t, filepath.Join(root, "lib.py"), "def f(): pass\n")

	files, err := Walk(context.Background(), root, &Options{
		DisabledLanguages: map[string]bool{"python": true},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Fatalf("expected only main.go, got %+v", files)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
