package boundary

import (
	"fmt"

	"github.com/codeintel/xray/internal/query"
	"github.com/codeintel/xray/internal/symbol"
)

func symbolInfo(sym symbol.Symbol) map[string]any {
	info := map[string]any{
		"name":         sym.Name,
		"canonical_id": sym.CanonicalID,
		"kind":         string(sym.Kind),
		"file":         sym.File,
		"line":         sym.Line,
		"end_line":     sym.EndLine,
		"location":     fmt.Sprintf("%s:%d", sym.File, sym.Line),
	}
	if sym.Signature != "" {
		info["signature"] = sym.Signature
	}
	return info
}

func foundSymbolInfo(f query.FoundSymbol) map[string]any {
	info := symbolInfo(f.Symbol)
	info["display"] = f.DisplayText
	info["matched_alias_type"] = string(f.AliasType)
	if f.MatchedBy != "" {
		info["matched_by"] = f.MatchedBy
	}
	return info
}

func impactResultInfo(result *query.ImpactResult) map[string]any {
	byDepth := make(map[string]any, len(result.ByDepth))
	for depth, syms := range result.ByDepth {
		entries := make([]map[string]any, len(syms))
		for i, is := range syms {
			entries[i] = symbolInfo(is.Symbol)
		}
		byDepth[fmt.Sprintf("%d", depth)] = entries
	}

	byFile := make(map[string]any, len(result.ByFile))
	for file, syms := range result.ByFile {
		names := make([]string, len(syms))
		for i, is := range syms {
			names[i] = is.Symbol.Name
		}
		byFile[file] = names
	}

	impacts := make([]map[string]any, len(result.Impacts))
	for i, is := range result.Impacts {
		entry := symbolInfo(is.Symbol)
		entry["depth"] = is.Depth
		impacts[i] = entry
	}

	return map[string]any{
		"seed":       symbolInfo(result.Seed),
		"impacts":    impacts,
		"by_depth":   byDepth,
		"by_file":    byFile,
		"max_depth":  result.MaxDepth,
		"risk":       string(result.Risk),
		"reasoning":  result.Reasoning,
		"total_hits": len(result.Impacts),
	}
}

func dependencyInfo(deps []query.DirectDep) []map[string]any {
	out := make([]map[string]any, len(deps))
	for i, d := range deps {
		entry := symbolInfo(d.Symbol)
		entry["edge_type"] = string(d.Type)
		out[i] = entry
	}
	return out
}
