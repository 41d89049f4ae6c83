package boundary

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
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

func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "auth.py"), []byte(authPySource), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func callTool(t *testing.T, s *Server, tool string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.CallTool(context.Background(), tool, raw)
	if err != nil {
		t.Fatalf("CallTool(%s): %v", tool, err)
	}
	var text string
	if len(result.Content) > 0 {
		if tc, ok := result.Content[0].(*mcp.TextContent); ok {
			text = tc.Text
		}
	}
	return result, text
}

func callJSON(t *testing.T, s *Server, tool string, args map[string]any) map[string]any {
	t.Helper()
	result, text := callTool(t, s, tool, args)
	if result.IsError {
		t.Fatalf("CallTool(%s) returned an error result: %s", tool, text)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("CallTool(%s): decode response: %v (raw=%s)", tool, err, text)
	}
	return out
}

func TestToolNamesIncludesAllNine(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })

	want := []string{
		"xray_batch_impact", "xray_build", "xray_dep_graph", "xray_dependencies",
		"xray_find_symbol", "xray_impact", "xray_overview", "xray_stats", "xray_symbol_at",
	}
	got := s.ToolNames()
	if len(got) != len(want) {
		t.Fatalf("ToolNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToolNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildThenFindSymbol(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })
	root := writeFixture(t)

	buildOut := callJSON(t, s, "xray_build", map[string]any{"path": root})
	if int(buildOut["symbols_indexed"].(float64)) != 5 {
		t.Fatalf("symbols_indexed = %v, want 5", buildOut["symbols_indexed"])
	}

	findOut := callJSON(t, s, "xray_find_symbol", map[string]any{"path": root, "query": "authenticate", "limit": 5})
	results, ok := findOut["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("xray_find_symbol results = %v, want 1 hit", findOut["results"])
	}
}

func TestBuildThenSymbolAt(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })
	root := writeFixture(t)
	callJSON(t, s, "xray_build", map[string]any{"path": root})

	out := callJSON(t, s, "xray_symbol_at", map[string]any{"path": root, "file": "auth.py", "line": 3})
	sym, ok := out["symbol"].(map[string]any)
	if !ok {
		t.Fatalf("xray_symbol_at = %v, want a symbol", out["symbol"])
	}
	if sym["name"] != "authenticate_user" {
		t.Fatalf("symbol_at name = %v, want authenticate_user", sym["name"])
	}
}

func TestBuildThenImpactReportsSafeToModify(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })
	root := writeFixture(t)
	callJSON(t, s, "xray_build", map[string]any{"path": root})

	impactOut := callJSON(t, s, "xray_impact", map[string]any{"path": root, "name": "authenticate_user", "max_depth": 5})
	if impactOut["total_hits"].(float64) != 0 {
		t.Fatalf("total_hits = %v, want 0", impactOut["total_hits"])
	}
	reasoning, _ := impactOut["reasoning"].([]any)
	found := false
	for _, r := range reasoning {
		if str, ok := r.(string); ok && strings.Contains(str, "safe to modify") {
			found = true
		}
	}
	if !found {
		t.Fatalf("reasoning = %v, want a 'safe to modify' line", reasoning)
	}
}

func TestBuildThenDepGraphInstabilityInRange(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })
	root := writeFixture(t)
	callJSON(t, s, "xray_build", map[string]any{"path": root})

	out := callJSON(t, s, "xray_dep_graph", map[string]any{"path": root, "names": []string{"validate_user"}})
	results, ok := out["results"].(map[string]any)
	if !ok {
		t.Fatalf("xray_dep_graph results = %v", out["results"])
	}
	entry, ok := results["validate_user"].(map[string]any)
	if !ok {
		t.Fatalf("xray_dep_graph missing validate_user entry: %v", results)
	}
	instability, ok := entry["instability"].(float64)
	if !ok || instability < 0 || instability > 1 {
		t.Fatalf("instability = %v, want a value in [0, 1]", entry["instability"])
	}
}

func TestUnknownPathReturnsErrorResult(t *testing.T) {
	s := NewServer()
	t.Cleanup(func() { s.Close() })

	result, text := callTool(t, s, "xray_find_symbol", map[string]any{
		"path": filepath.Join(t.TempDir(), "does-not-exist"), "query": "x",
	})
	if !result.IsError {
		t.Fatalf("expected an error result for a nonexistent root, got %q", text)
	}
}
