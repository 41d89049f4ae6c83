package query

import (
	"log/slog"
	"sort"

	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/symbol"
	"github.com/codeintel/xray/internal/xerrors"
)

const overviewImpactDepth = 3

// CriticalSymbol is one entry in an overview's ranked critical-symbol list.
type CriticalSymbol struct {
	Symbol      symbol.Symbol
	ImpactCount int
	Risk        store.RiskLevel
}

// Overview aggregates project-wide coupling metrics.
type Overview struct {
	Critical        []CriticalSymbol
	HotFiles        []string // files ranked by aggregate incoming impact
	CouplingScore   float64  // total impacts / symbols analysed
	SymbolsAnalysed int
}

// Overview picks up to maxSymbols function/method/class symbols ranked by
// incoming-edge count, runs Impact(..., max_depth=3) on each, and reports
// per-symbol impact counts, a critical-files ranking, and a coupling score.
func (e *Engine) Overview(maxSymbols int) (*Overview, error) {
	candidates, err := e.topByFanIn(maxSymbols)
	if err != nil {
		return nil, err
	}

	ov := &Overview{}
	fileImpact := make(map[string]int)
	var totalImpacts int
	for _, sym := range candidates {
		result, err := e.Impact(sym.CanonicalID, overviewImpactDepth)
		if err != nil {
			continue
		}
		ov.Critical = append(ov.Critical, CriticalSymbol{
			Symbol: sym, ImpactCount: len(result.Impacts), Risk: result.Risk,
		})
		totalImpacts += len(result.Impacts)
		for file := range result.ByFile {
			fileImpact[file] += len(result.ByFile[file])
		}
	}
	ov.SymbolsAnalysed = len(candidates)
	if ov.SymbolsAnalysed > 0 {
		ov.CouplingScore = float64(totalImpacts) / float64(ov.SymbolsAnalysed)
	}

	sort.Slice(ov.Critical, func(i, j int) bool {
		return ov.Critical[i].ImpactCount > ov.Critical[j].ImpactCount
	})

	type fileCount struct {
		file  string
		count int
	}
	var files []fileCount
	for f, c := range fileImpact {
		files = append(files, fileCount{f, c})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].count != files[j].count {
			return files[i].count > files[j].count
		}
		return files[i].file < files[j].file
	})
	for _, fc := range files {
		ov.HotFiles = append(ov.HotFiles, fc.file)
	}

	slog.Info("query.overview.done", "symbols_analysed", ov.SymbolsAnalysed, "coupling_score", ov.CouplingScore, "hot_files", len(ov.HotFiles))
	return ov, nil
}

// topByFanIn returns up to limit function/method/class symbols ranked by
// incoming-edge count, descending.
func (e *Engine) topByFanIn(limit int) ([]symbol.Symbol, error) {
	kinds := []symbol.Kind{symbol.KindFunction, symbol.KindMethod, symbol.KindClass}
	syms, err := e.store.SymbolsByKinds(kinds)
	if err != nil {
		return nil, &xerrors.StoreError{Op: "overview", Err: err}
	}

	type ranked struct {
		sym    symbol.Symbol
		fanIn  int
	}
	var all []ranked
	for _, sym := range syms {
		fanIn, err := e.store.FanIn(sym.ID)
		if err != nil {
			continue
		}
		all = append(all, ranked{sym, fanIn})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].fanIn != all[j].fanIn {
			return all[i].fanIn > all[j].fanIn
		}
		return all[i].sym.Name < all[j].sym.Name
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]symbol.Symbol, len(all))
	for i, r := range all {
		out[i] = r.sym
	}
	return out, nil
}

// Batch applies Impact to each name and returns a map; no cross-symbol
// optimisation.
func (e *Engine) Batch(names []string, maxDepth int) map[string]*ImpactResult {
	out := make(map[string]*ImpactResult, len(names))
	for _, name := range names {
		result, err := e.Impact(name, maxDepth)
		if err != nil {
			out[name] = nil
			continue
		}
		out[name] = result
	}
	return out
}

// GraphEntry is one name's dependency graph summary.
type GraphEntry struct {
	Dependencies []DirectDep
	Impact       *ImpactResult
	FanIn        int
	FanOut       int
	Instability  float64
}

// Graph returns, per name, direct dependencies, a depth-3 impact, and
// fan-in/fan-out/instability metrics.
func (e *Engine) Graph(names []string) map[string]*GraphEntry {
	out := make(map[string]*GraphEntry, len(names))
	for _, name := range names {
		deps, _, err := e.Dependencies(name)
		if err != nil {
			out[name] = nil
			continue
		}
		impact, err := e.Impact(name, overviewImpactDepth)
		if err != nil {
			out[name] = nil
			continue
		}
		fanIn := len(impact.Impacts)
		fanOut := len(deps)
		var instability float64
		if fanIn+fanOut > 0 {
			instability = float64(fanOut) / float64(fanIn+fanOut)
		}
		out[name] = &GraphEntry{
			Dependencies: deps,
			Impact:       impact,
			FanIn:        fanIn,
			FanOut:       fanOut,
			Instability:  instability,
		}
	}
	return out
}
