package extract

import (
	"testing"

	"github.com/codeintel/xray/internal/lang"
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

func TestPythonExtractSymbols(t *testing.T) {
	fe := For(lang.Python)
	if fe == nil {
		t.Fatal("no python front end registered")
	}
	syms := fe.ExtractSymbols([]byte(authPySource), "auth.py")
	if len(syms) != 5 {
		t.Fatalf("expected 5 symbols, got %d: %+v", len(syms), syms)
	}

	var method *symbol.Raw
	for i := range syms {
		if syms[i].Name == "authenticate_user" {
			method = &syms[i]
		}
	}
	if method == nil {
		t.Fatal("authenticate_user not found")
	}
	if method.Kind != symbol.KindMethod {
		t.Errorf("authenticate_user kind = %s, want method", method.Kind)
	}
	if method.ParentIndex < 0 || syms[method.ParentIndex].Name != "UserService" {
		t.Errorf("authenticate_user parent not UserService")
	}
	if method.Line != 2 {
		t.Errorf("authenticate_user line = %d, want 2", method.Line)
	}
}

func TestPythonExtractEdges(t *testing.T) {
	fe := For(lang.Python)
	syms := fe.ExtractSymbols([]byte(authPySource), "auth.py")
	edges := fe.ExtractEdges([]byte(authPySource), "auth.py", syms)

	want := map[string]bool{"validate_user": false, "check_password": false}
	for _, e := range edges {
		if e.FromSymbol == "UserService.authenticate_user" {
			if _, ok := want[e.ToName]; ok {
				want[e.ToName] = true
			}
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing edge from authenticate_user to %s", name)
		}
	}
}
