// Package query implements C5: symbol search, location lookup, bounded BFS
// impact analysis, direct dependencies, and project-wide coupling metrics
// over a built store.
package query

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/symbol"
	"github.com/codeintel/xray/internal/xerrors"
)

// Engine answers read queries against a built store.
type Engine struct {
	store *store.Store
}

// New wraps a store for querying.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// FoundSymbol is a ranked search hit, enriched with display fields.
type FoundSymbol struct {
	Symbol      symbol.Symbol
	MatchedBy   string // the alias text that matched
	AliasType   symbol.AliasType
	Location    string // "file:line"
	DisplayText string // signature if present, else "<kind> <name>"
}

// Find implements symbol search: case-insensitive substring match against
// the alias index, ranked exact > prefix > substring, then alias-type
// priority, capped at limit.
func (e *Engine) Find(query string, limit int) ([]FoundSymbol, error) {
	results, err := e.store.FindByName(query, "")
	if err != nil {
		return nil, &xerrors.StoreError{Op: "find_symbol", Err: err}
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	out := make([]FoundSymbol, len(results))
	for i, r := range results {
		out[i] = FoundSymbol{
			Symbol:      r.Symbol,
			MatchedBy:   r.AliasName,
			AliasType:   r.AliasType,
			Location:    location(r.Symbol),
			DisplayText: displayText(r.Symbol),
		}
	}
	return out, nil
}

// SymbolAt implements location lookup: the innermost symbol covering line
// in file, or nil if none does.
func (e *Engine) SymbolAt(file string, line int) (*symbol.Symbol, error) {
	sym, err := e.store.SymbolAtLine(file, line)
	if err != nil {
		return nil, &xerrors.StoreError{Op: "symbol_at", Err: err}
	}
	return sym, nil
}

// ImpactedSymbol is one hop in an impact result.
type ImpactedSymbol struct {
	Symbol symbol.Symbol
	Depth  int
}

// ImpactResult is the BFS-derived dependent closure of a seed symbol.
type ImpactResult struct {
	Seed      symbol.Symbol
	Impacts   []ImpactedSymbol
	ByDepth   map[int][]ImpactedSymbol
	ByFile    map[string][]ImpactedSymbol
	MaxDepth  int // deepest depth actually reached, not the requested cap
	Risk      store.RiskLevel
	Reasoning []string
}

// Impact computes the transitive closure of dependents of the best alias
// match for name, to at most maxDepth hops. A seed that resolves to
// nothing is not an error: it yields an empty ImpactResult carrying a
// single-line reasoning instead.
func (e *Engine) Impact(name string, maxDepth int) (*ImpactResult, error) {
	seed, err := e.resolveSeed(name)
	if err != nil {
		var unknown *xerrors.UnknownSymbol
		if errors.As(err, &unknown) {
			return &ImpactResult{
				Seed:      symbol.Symbol{Name: name},
				ByDepth:   map[int][]ImpactedSymbol{},
				ByFile:    map[string][]ImpactedSymbol{},
				Risk:      store.RiskLow,
				Reasoning: []string{unknown.Error()},
			}, nil
		}
		return nil, err
	}

	bfs, err := e.store.BFS(seed.ID, store.Inbound, nil, maxDepth, 10000)
	if err != nil {
		return nil, &xerrors.StoreError{Op: "impact", Err: err}
	}
	hops := store.DeduplicateHops(bfs.Hops)

	result := &ImpactResult{
		Seed:    *seed,
		ByDepth: make(map[int][]ImpactedSymbol),
		ByFile:  make(map[string][]ImpactedSymbol),
	}
	for _, h := range hops {
		sym, err := e.store.SymbolByID(h.SymbolID)
		if err != nil || sym == nil {
			continue
		}
		is := ImpactedSymbol{Symbol: *sym, Depth: h.Depth}
		result.Impacts = append(result.Impacts, is)
		result.ByDepth[h.Depth] = append(result.ByDepth[h.Depth], is)
		result.ByFile[sym.File] = append(result.ByFile[sym.File], is)
		if h.Depth > result.MaxDepth {
			result.MaxDepth = h.Depth
		}
	}
	sort.Slice(result.Impacts, func(i, j int) bool {
		if result.Impacts[i].Depth != result.Impacts[j].Depth {
			return result.Impacts[i].Depth < result.Impacts[j].Depth
		}
		return result.Impacts[i].Symbol.Name < result.Impacts[j].Symbol.Name
	})

	summary := store.BuildImpactSummary(hops)
	result.Risk = summary.Risk
	result.Reasoning = reasoning(name, summary)
	slog.Debug("query.impact.done", "name", name, "dependents", summary.TotalDependents, "risk", summary.Risk)
	return result, nil
}

func reasoning(name string, summary store.ImpactSummary) []string {
	lines := []string{
		fmt.Sprintf("%s has %d transitive dependent(s) across the reachable graph", name, summary.TotalDependents),
		fmt.Sprintf("%d direct caller(s) at depth 1", summary.DirectCallers),
		fmt.Sprintf("risk tier: %s", summary.Risk),
	}
	if summary.TotalDependents == 0 {
		lines = append(lines, "no dependents found — safe to modify")
	}
	return lines
}

// DirectDep is one direct-dependency row.
type DirectDep struct {
	Symbol symbol.Symbol
	Type   symbol.EdgeType
}

// Dependencies implements the single-hop "what does this depend on" query.
// A seed that resolves to nothing is not an error: it yields an empty
// slice and a single-line reasoning instead.
func (e *Engine) Dependencies(name string) ([]DirectDep, []string, error) {
	seed, err := e.resolveSeed(name)
	if err != nil {
		var unknown *xerrors.UnknownSymbol
		if errors.As(err, &unknown) {
			return nil, []string{unknown.Error()}, nil
		}
		return nil, nil, err
	}
	edges, err := e.store.Dependencies(seed.ID, nil)
	if err != nil {
		return nil, nil, &xerrors.StoreError{Op: "dependencies", Err: err}
	}
	out := make([]DirectDep, 0, len(edges))
	for _, edge := range edges {
		sym, err := e.store.SymbolByID(edge.ToID)
		if err != nil || sym == nil {
			continue
		}
		out = append(out, DirectDep{Symbol: *sym, Type: edge.Type})
	}
	return out, nil, nil
}

// resolveSeed finds the best alias match for name, or an UnknownSymbol
// error when nothing matches.
func (e *Engine) resolveSeed(name string) (*symbol.Symbol, error) {
	results, err := e.store.FindByName(name, "")
	if err != nil {
		return nil, &xerrors.StoreError{Op: "resolve seed", Err: err}
	}
	for _, r := range results {
		if r.Tier == store.MatchExact {
			sym := r.Symbol
			return &sym, nil
		}
	}
	if len(results) > 0 {
		sym := results[0].Symbol
		return &sym, nil
	}
	slog.Debug("query.seed.unresolved", "name", name)
	return nil, &xerrors.UnknownSymbol{Name: name}
}

func location(s symbol.Symbol) string {
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

func displayText(s symbol.Symbol) string {
	if s.Signature != "" {
		return s.Signature
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Name)
}
