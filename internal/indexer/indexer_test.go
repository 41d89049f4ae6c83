package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeintel/xray/internal/store"
)

const authPySource = `class UserService:
    def authenticate_user(self, u, p):
        if validate_user(u):
            return check_password(p)
        return False
def validate_user(u): return u in get_users()
def check_password(p): return len(p) >= 8
def get_users(): return ['admin']
`

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func openMemStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBuildIndexesSymbolsAndEdges(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{"auth.py": authPySource})
	s := openMemStore(t)

	result, err := Build(context.Background(), s, root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.FilesIndexed != 1 {
		t.Errorf("FilesIndexed = %d, want 1", result.FilesIndexed)
	}
	if result.SymbolsIndexed != 5 {
		t.Errorf("SymbolsIndexed = %d, want 5", result.SymbolsIndexed)
	}
	if result.EdgesCreated == 0 {
		t.Errorf("EdgesCreated = 0, want at least 1")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %+v, want none", result.Errors)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{"auth.py": authPySource})
	s := openMemStore(t)

	if _, err := Build(context.Background(), s, root); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := Build(context.Background(), s, root)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if second.SymbolsIndexed != 5 {
		t.Fatalf("second build SymbolsIndexed = %d, want 5 (stale rows from first build leaking through)", second.SymbolsIndexed)
	}
}

func TestBuildRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := openMemStore(t)

	if _, err := Build(context.Background(), s, file); err == nil {
		t.Fatal("expected an error indexing a non-directory root")
	}
}

func TestBuildHonoursConfigDisabledLanguage(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"auth.py": authPySource,
		".xray.yml": "languages:\n  python:\n    disabled: true\n",
	})
	s := openMemStore(t)

	result, err := Build(context.Background(), s, root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.FilesIndexed != 0 || result.SymbolsIndexed != 0 {
		t.Fatalf("expected python files to be excluded, got %+v", result)
	}
}
