package lang

import "testing"

func TestLanguageForExtension(t *testing.T) {
	cases := map[string]Language{
		".go":  Go,
		".py":  Python,
		".js":  JavaScript,
		".jsx": JavaScript,
		".ts":  TypeScript,
		".tsx": TSX,
	}
	for ext, want := range cases {
		got, ok := LanguageForExtension(ext)
		if !ok {
			t.Errorf("LanguageForExtension(%q): not registered", ext)
			continue
		}
		if got != want {
			t.Errorf("LanguageForExtension(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestLanguageForExtensionUnknown(t *testing.T) {
	if _, ok := LanguageForExtension(".rb"); ok {
		t.Errorf("expected .rb to be unregistered")
	}
}

func TestForLanguageSpecsComplete(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Fatalf("no LanguageSpec for %s", l)
		}
		if len(spec.FileExtensions) == 0 {
			t.Errorf("%s: no file extensions", l)
		}
		if len(spec.ClassNodeTypes) == 0 {
			t.Errorf("%s: no class node types", l)
		}
	}
}
