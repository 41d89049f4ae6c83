package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Exclude) != 0 || len(cfg.Languages) != 0 {
		t.Fatalf("expected zero Config, got %+v", cfg)
	}
}

func TestLoadParsesExcludeAndLanguages(t *testing.T) {
	root := t.TempDir()
	body := "exclude:\n  - fixtures\n  - '*.generated.go'\nlanguages:\n  python:\n    disabled: true\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "fixtures" {
		t.Fatalf("Exclude = %+v", cfg.Exclude)
	}
	disabled := cfg.DisabledLanguages()
	if !disabled["python"] || len(disabled) != 1 {
		t.Fatalf("DisabledLanguages() = %+v", disabled)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("exclude: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
