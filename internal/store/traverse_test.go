package store

import (
	"testing"

	"github.com/codeintel/xray/internal/symbol"
)

// chainABC builds a -> b -> c (call edges) and returns their store IDs.
func chainABC(t *testing.T, s *Store) (a, b, c int64) {
	t.Helper()
	a, err := s.InsertSymbol(symbol.Symbol{CanonicalID: "f.py:a", Name: "a", Kind: symbol.KindFunction, File: "f.py", Line: 1, EndLine: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err = s.InsertSymbol(symbol.Symbol{CanonicalID: "f.py:b", Name: "b", Kind: symbol.KindFunction, File: "f.py", Line: 2, EndLine: 2})
	if err != nil {
		t.Fatal(err)
	}
	c, err = s.InsertSymbol(symbol.Symbol{CanonicalID: "f.py:c", Name: "c", Kind: symbol.KindFunction, File: "f.py", Line: 3, EndLine: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InsertEdge(symbol.Edge{FromID: a, ToID: b, Type: symbol.EdgeCall}); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertEdge(symbol.Edge{FromID: b, ToID: c, Type: symbol.EdgeCall}); err != nil {
		t.Fatal(err)
	}
	return a, b, c
}

func TestBFSOutboundFollowsChain(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	a, b, c := chainABC(t, s)

	result, err := s.BFS(a, Outbound, nil, 3, 100)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	depths := map[int64]int{}
	for _, h := range result.Hops {
		depths[h.SymbolID] = h.Depth
	}
	if depths[b] != 1 || depths[c] != 2 {
		t.Fatalf("depths = %+v, want b:1 c:2", depths)
	}
}

func TestBFSInboundIsReverse(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	a, _, c := chainABC(t, s)

	result, err := s.BFS(c, Inbound, nil, 3, 100)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	found := false
	for _, h := range result.Hops {
		if h.SymbolID == a && h.Depth == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected to reach a at depth 2 walking inbound from c, got %+v", result.Hops)
	}
}

func TestBFSZeroDepthReturnsNothing(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	a, _, _ := chainABC(t, s)

	result, err := s.BFS(a, Outbound, nil, 0, 100)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if len(result.Hops) != 0 {
		t.Fatalf("maxDepth=0 should return no hops, got %+v", result.Hops)
	}
}

func TestBFSRespectsMaxResults(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	a, _, _ := chainABC(t, s)

	result, err := s.BFS(a, Outbound, nil, 5, 1)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if len(result.Hops) != 1 {
		t.Fatalf("maxResults=1 should cap hops at 1, got %d", len(result.Hops))
	}
}
