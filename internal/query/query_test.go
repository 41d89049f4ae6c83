package query

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeintel/xray/internal/indexer"
	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/symbol"
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

func buildAuthFixture(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "auth.py"), []byte(authPySource), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	result, err := indexer.Build(context.Background(), s, root)
	if err != nil {
		t.Fatalf("indexer.Build: %v", err)
	}
	if result.FilesIndexed != 1 {
		t.Fatalf("FilesIndexed = %d, want 1", result.FilesIndexed)
	}
	if result.SymbolsIndexed != 5 {
		t.Fatalf("SymbolsIndexed = %d, want 5", result.SymbolsIndexed)
	}
	if result.EdgesCreated < 3 {
		t.Fatalf("EdgesCreated = %d, want >= 3", result.EdgesCreated)
	}

	return New(s), s
}

func TestEndToEndFindSymbol(t *testing.T) {
	e, _ := buildAuthFixture(t)

	found, err := e.Find("authenticate", 5)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Find(\"authenticate\") returned %d results, want 1: %+v", len(found), found)
	}
	hit := found[0]
	if hit.Symbol.Kind != symbol.KindMethod {
		t.Errorf("kind = %s, want method", hit.Symbol.Kind)
	}
	if !strings.HasPrefix(hit.DisplayText, "def authenticate_user") {
		t.Errorf("signature = %q, want prefix 'def authenticate_user'", hit.DisplayText)
	}
}

func TestEndToEndSymbolAt(t *testing.T) {
	e, _ := buildAuthFixture(t)

	sym, err := e.SymbolAt("auth.py", 3)
	if err != nil {
		t.Fatalf("SymbolAt: %v", err)
	}
	if sym == nil || sym.Name != "authenticate_user" {
		t.Fatalf("SymbolAt(auth.py, 3) = %+v, want authenticate_user", sym)
	}
}

func TestEndToEndDependencies(t *testing.T) {
	e, _ := buildAuthFixture(t)

	deps, _, err := e.Dependencies("authenticate_user")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	names := map[string]bool{}
	for _, d := range deps {
		names[d.Symbol.Name] = true
	}
	if !names["validate_user"] || !names["check_password"] {
		t.Fatalf("Dependencies(authenticate_user) = %+v, want at least validate_user and check_password", names)
	}
}

func TestEndToEndImpactDirect(t *testing.T) {
	e, _ := buildAuthFixture(t)

	result, err := e.Impact("check_password", 5)
	if err != nil {
		t.Fatalf("Impact: %v", err)
	}
	if len(result.Impacts) < 1 {
		t.Fatalf("Impact(check_password) has no impacts")
	}
	depth1 := result.ByDepth[1]
	found := false
	for _, is := range depth1 {
		if is.Symbol.Name == "authenticate_user" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Impact(check_password) missing authenticate_user at depth 1: %+v", result.ByDepth)
	}
}

func TestEndToEndImpactTransitiveViaImportBackbone(t *testing.T) {
	e, _ := buildAuthFixture(t)

	result, err := e.Impact("get_users", 5)
	if err != nil {
		t.Fatalf("Impact: %v", err)
	}
	atDepth := map[string]int{}
	for _, is := range result.Impacts {
		atDepth[is.Symbol.Name] = is.Depth
	}
	if atDepth["validate_user"] != 1 {
		t.Errorf("validate_user depth = %d, want 1", atDepth["validate_user"])
	}
	if d, ok := atDepth["authenticate_user"]; !ok || d < 1 {
		t.Errorf("authenticate_user missing or at unexpected depth: %+v", atDepth)
	}
}

func TestEndToEndImpactZeroDepthEmpty(t *testing.T) {
	e, _ := buildAuthFixture(t)

	result, err := e.Impact("check_password", 0)
	if err != nil {
		t.Fatalf("Impact: %v", err)
	}
	if len(result.Impacts) != 0 {
		t.Fatalf("Impact(check_password, 0) = %+v, want empty", result.Impacts)
	}
}

func TestEndToEndImpactNoDependentsReasonsSafe(t *testing.T) {
	e, _ := buildAuthFixture(t)

	result, err := e.Impact("authenticate_user", 5)
	if err != nil {
		t.Fatalf("Impact: %v", err)
	}
	if len(result.Impacts) != 0 {
		t.Fatalf("expected authenticate_user to have no dependents, got %+v", result.Impacts)
	}
	joined := strings.Join(result.Reasoning, " | ")
	if !strings.Contains(joined, "safe to modify") {
		t.Errorf("reasoning = %q, want a 'safe to modify' line", joined)
	}
}

func TestEndToEndOverview(t *testing.T) {
	e, _ := buildAuthFixture(t)

	ov, err := e.Overview(10)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.CouplingScore <= 0 {
		t.Errorf("CouplingScore = %v, want > 0", ov.CouplingScore)
	}
	found := false
	for _, c := range ov.Critical {
		if c.Symbol.Name == "authenticate_user" {
			found = true
		}
	}
	if !found {
		t.Errorf("authenticate_user missing from critical list: %+v", ov.Critical)
	}
}

func TestUnknownSymbolDependenciesReturnsEmptyWithReasoning(t *testing.T) {
	e, _ := buildAuthFixture(t)

	deps, reasoning, err := e.Dependencies("does_not_exist")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("Dependencies(does_not_exist) = %+v, want empty", deps)
	}
	joined := strings.Join(reasoning, " | ")
	if !strings.Contains(joined, "symbol 'does_not_exist' not found in codebase") {
		t.Fatalf("reasoning = %q, want the not-found line", joined)
	}
}

func TestUnknownSymbolImpactReturnsEmptyWithReasoning(t *testing.T) {
	e, _ := buildAuthFixture(t)

	result, err := e.Impact("does_not_exist", 5)
	if err != nil {
		t.Fatalf("Impact: %v", err)
	}
	if len(result.Impacts) != 0 {
		t.Fatalf("Impact(does_not_exist) = %+v, want empty", result.Impacts)
	}
	joined := strings.Join(result.Reasoning, " | ")
	if !strings.Contains(joined, "symbol 'does_not_exist' not found in codebase") {
		t.Fatalf("reasoning = %q, want the not-found line", joined)
	}
}
