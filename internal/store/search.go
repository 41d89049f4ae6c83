package store

import (
	"sort"

	"github.com/codeintel/xray/internal/symbol"
)

// MatchTier classifies how an alias matched a query name.
type MatchTier int

const (
	MatchExact MatchTier = iota
	MatchPrefix
	MatchSubstring
)

// FindResult is a ranked candidate returned by FindByName.
type FindResult struct {
	Symbol    symbol.Symbol
	AliasType symbol.AliasType
	AliasName string
	Tier      MatchTier
}

// FindByName resolves a symbol name against the alias table, ranking
// results exact before prefix before substring, and within a tier by alias
// type priority (canonical, then qualified, then simple, then import).
// contextFile, when non-empty, prefers matches whose alias is either
// unrestricted or scoped to that file; aliases scoped to a different file
// are excluded entirely.
func (s *Store) FindByName(name, contextFile string) ([]FindResult, error) {
	var results []FindResult
	seen := make(map[int64]bool)

	exact, err := s.FindByAlias(name, contextFile)
	if err != nil {
		return nil, err
	}
	results = append(results, s.toFindResults(exact, MatchExact, seen)...)

	prefix, err := s.FindByAliasPrefix(name)
	if err != nil {
		return nil, err
	}
	results = append(results, s.toFindResults(filterContext(prefix, contextFile), MatchPrefix, seen)...)

	substr, err := s.FindByAliasSubstring(name)
	if err != nil {
		return nil, err
	}
	results = append(results, s.toFindResults(filterContext(substr, contextFile), MatchSubstring, seen)...)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Tier != results[j].Tier {
			return results[i].Tier < results[j].Tier
		}
		return symbol.AliasPriority(results[i].AliasType) < symbol.AliasPriority(results[j].AliasType)
	})
	return results, nil
}

func filterContext(matches []aliasMatch, contextFile string) []aliasMatch {
	if contextFile == "" {
		return matches
	}
	var out []aliasMatch
	for _, m := range matches {
		if m.ContextFile == "" || m.ContextFile == contextFile {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) toFindResults(matches []aliasMatch, tier MatchTier, seen map[int64]bool) []FindResult {
	var out []FindResult
	for _, m := range matches {
		if seen[m.SymbolID] {
			continue
		}
		sym, err := s.SymbolByID(m.SymbolID)
		if err != nil || sym == nil {
			continue
		}
		seen[m.SymbolID] = true
		out = append(out, FindResult{Symbol: *sym, AliasType: m.AliasType, AliasName: m.AliasName, Tier: tier})
	}
	return out
}
