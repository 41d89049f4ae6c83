package symbol

import "testing"

func TestCanonicalID(t *testing.T) {
	cases := []struct {
		file, parent, name, want string
	}{
		{"auth.py", "", "get_users", "auth.py:get_users"},
		{"auth.py", "UserService", "authenticate_user", "auth.py:UserService.authenticate_user"},
	}
	for _, c := range cases {
		if got := CanonicalID(c.file, c.parent, c.name); got != c.want {
			t.Errorf("CanonicalID(%q,%q,%q) = %q, want %q", c.file, c.parent, c.name, got, c.want)
		}
	}
}

func TestAliases(t *testing.T) {
	s := Symbol{ID: 1, CanonicalID: "auth.py:UserService.authenticate_user", Name: "authenticate_user", Kind: KindMethod, File: "auth.py"}
	aliases := Aliases(s, "UserService")

	var hasCanonical, hasSimple, hasQualified bool
	for _, a := range aliases {
		switch a.Type {
		case AliasCanonical:
			hasCanonical = true
			if a.ContextFile != "" {
				t.Errorf("canonical alias must not be context-scoped, got %q", a.ContextFile)
			}
		case AliasSimple:
			hasSimple = true
			if a.ContextFile != "auth.py" {
				t.Errorf("simple alias context_file = %q, want auth.py", a.ContextFile)
			}
		case AliasQualified:
			hasQualified = true
			if a.Name != "UserService.authenticate_user" {
				t.Errorf("qualified alias name = %q", a.Name)
			}
		}
	}
	if !hasCanonical || !hasSimple || !hasQualified {
		t.Fatalf("method symbol missing required aliases: %+v", aliases)
	}
}

func TestAliasesImport(t *testing.T) {
	s := Symbol{ID: 2, CanonicalID: "main.py:requests", Name: "requests", Kind: KindImport, File: "main.py"}
	aliases := Aliases(s, "")
	var hasImport bool
	for _, a := range aliases {
		if a.Type == AliasImport {
			hasImport = true
		}
	}
	if !hasImport {
		t.Fatalf("import symbol missing import alias: %+v", aliases)
	}
}

func TestEnclosingName(t *testing.T) {
	if got := EnclosingName("foo", ""); got != "foo" {
		t.Errorf("EnclosingName(foo,\"\") = %q", got)
	}
	if got := EnclosingName("bar", "Foo"); got != "Foo.bar" {
		t.Errorf("EnclosingName(bar,Foo) = %q", got)
	}
}
