package store

import (
	"testing"

	"github.com/codeintel/xray/internal/symbol"
)

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()
	if _, err := s.LastBuild(); err != nil {
		t.Fatalf("LastBuild on empty store: %v", err)
	}
}

func TestSymbolInsertAndFetch(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	id, err := s.InsertSymbol(symbol.Symbol{
		CanonicalID: "auth.py:UserService.authenticate_user",
		Name:        "authenticate_user",
		Kind:        symbol.KindMethod,
		File:        "auth.py",
		Line:        2,
		Column:      4,
		EndLine:     5,
	})
	if err != nil {
		t.Fatalf("InsertSymbol: %v", err)
	}

	got, err := s.SymbolByID(id)
	if err != nil {
		t.Fatalf("SymbolByID: %v", err)
	}
	if got == nil || got.Name != "authenticate_user" {
		t.Fatalf("SymbolByID returned %+v", got)
	}
}

func TestSymbolAtLinePicksInnermost(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	classID, err := s.InsertSymbol(symbol.Symbol{
		CanonicalID: "auth.py:UserService", Name: "UserService", Kind: symbol.KindClass,
		File: "auth.py", Line: 1, EndLine: 6,
	})
	if err != nil {
		t.Fatalf("insert class: %v", err)
	}
	_, err = s.InsertSymbol(symbol.Symbol{
		CanonicalID: "auth.py:UserService.authenticate_user", Name: "authenticate_user", Kind: symbol.KindMethod,
		File: "auth.py", Line: 2, EndLine: 5, ParentID: &classID,
	})
	if err != nil {
		t.Fatalf("insert method: %v", err)
	}

	got, err := s.SymbolAtLine("auth.py", 3)
	if err != nil {
		t.Fatalf("SymbolAtLine: %v", err)
	}
	if got == nil || got.Name != "authenticate_user" {
		t.Fatalf("SymbolAtLine(3) = %+v, want authenticate_user", got)
	}
}

func TestInsertAliasAndFindByName(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	id, err := s.InsertSymbol(symbol.Symbol{
		CanonicalID: "auth.py:validate_user", Name: "validate_user", Kind: symbol.KindFunction,
		File: "auth.py", Line: 8, EndLine: 8,
	})
	if err != nil {
		t.Fatalf("InsertSymbol: %v", err)
	}
	err = s.InsertAliasBatch([]symbol.Alias{
		{SymbolID: id, Type: symbol.AliasCanonical, Name: "auth.py:validate_user"},
		{SymbolID: id, Type: symbol.AliasSimple, Name: "validate_user"},
	})
	if err != nil {
		t.Fatalf("InsertAliasBatch: %v", err)
	}

	results, err := s.FindByName("validate_user", "")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if len(results) != 1 || results[0].Tier != MatchExact {
		t.Fatalf("FindByName results = %+v", results)
	}
}

func TestEdgeInsertDeduplicates(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	a, _ := s.InsertSymbol(symbol.Symbol{CanonicalID: "f.py:a", Name: "a", Kind: symbol.KindFunction, File: "f.py", Line: 1, EndLine: 1})
	b, _ := s.InsertSymbol(symbol.Symbol{CanonicalID: "f.py:b", Name: "b", Kind: symbol.KindFunction, File: "f.py", Line: 2, EndLine: 2})

	e := symbol.Edge{FromID: a, ToID: b, Type: symbol.EdgeCall}
	if err := s.InsertEdge(e); err != nil {
		t.Fatalf("InsertEdge: %v", err)
	}
	if err := s.InsertEdge(e); err != nil {
		t.Fatalf("InsertEdge duplicate: %v", err)
	}

	fanOut, err := s.FanOut(a)
	if err != nil {
		t.Fatalf("FanOut: %v", err)
	}
	if fanOut != 1 {
		t.Errorf("FanOut = %d, want 1 (duplicate insert must not double-count)", fanOut)
	}
}

func TestBuildMetaRoundTrip(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if err := s.RecordBuildMeta("2026-08-01T00:00:00Z", 3, 12, 9); err != nil {
		t.Fatalf("RecordBuildMeta: %v", err)
	}
	meta, err := s.LastBuild()
	if err != nil {
		t.Fatalf("LastBuild: %v", err)
	}
	if meta == nil || meta.FilesIndexed != 3 || meta.SymbolsIndexed != 12 || meta.EdgesCreated != 9 {
		t.Fatalf("LastBuild = %+v", meta)
	}
}
