package boundary

import (
	"context"
	"fmt"

	"github.com/codeintel/xray/internal/indexer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// handleBuild implements the build operation: walk path, extract, resolve,
// and persist a fresh symbol graph, replacing any prior build.
func (s *Server) handleBuild(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}

	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	result, err := indexer.Build(ctx, e.store, root)
	if err != nil {
		return errResult(fmt.Sprintf("build failed: %v", err)), nil
	}

	buildErrors := make([]string, len(result.Errors))
	for i, be := range result.Errors {
		buildErrors[i] = fmt.Sprintf("%s: %v", be.File, be.Err)
	}

	return jsonResult(map[string]any{
		"path":            root,
		"files_indexed":   result.FilesIndexed,
		"symbols_indexed": result.SymbolsIndexed,
		"edges_created":   result.EdgesCreated,
		"duration_ms":     result.Duration.Milliseconds(),
		"parse_errors":    buildErrors,
	}), nil
}

func (s *Server) handleFindSymbol(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	query := getStringArg(args, "query")
	if query == "" {
		return errResult("query is required"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	limit := getIntArg(args, "limit", 10)
	found, err := e.engine.Find(query, limit)
	if err != nil {
		return errResult(err.Error()), nil
	}

	out := make([]map[string]any, len(found))
	for i, f := range found {
		out[i] = foundSymbolInfo(f)
	}
	return jsonResult(map[string]any{"query": query, "results": out}), nil
}

func (s *Server) handleSymbolAt(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	file := getStringArg(args, "file")
	if file == "" {
		return errResult("file is required"), nil
	}
	line := getIntArg(args, "line", 0)
	if line <= 0 {
		return errResult("line must be a positive integer"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	sym, err := e.engine.SymbolAt(file, line)
	if err != nil {
		return errResult(err.Error()), nil
	}
	if sym == nil {
		return jsonResult(map[string]any{"file": file, "line": line, "symbol": nil}), nil
	}
	return jsonResult(map[string]any{"file": file, "line": line, "symbol": symbolInfo(*sym)}), nil
}

func (s *Server) handleImpact(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	maxDepth := getIntArg(args, "max_depth", 5)
	result, err := e.engine.Impact(name, maxDepth)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(impactResultInfo(result)), nil
}

func (s *Server) handleDependencies(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	deps, reasoning, err := e.engine.Dependencies(name)
	if err != nil {
		return errResult(err.Error()), nil
	}
	resp := map[string]any{"name": name, "dependencies": dependencyInfo(deps)}
	if len(reasoning) > 0 {
		resp["reasoning"] = reasoning
	}
	return jsonResult(resp), nil
}

func (s *Server) handleBatchImpact(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	names := getStringSliceArg(args, "names")
	if len(names) == 0 {
		return errResult("names is required and must be non-empty"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	maxDepth := getIntArg(args, "max_depth", 5)
	byName := e.engine.Batch(names, maxDepth)

	out := make(map[string]any, len(byName))
	for name, result := range byName {
		if result == nil {
			out[name] = nil
			continue
		}
		out[name] = impactResultInfo(result)
	}
	return jsonResult(map[string]any{"results": out}), nil
}

func (s *Server) handleDepGraph(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	names := getStringSliceArg(args, "names")
	if len(names) == 0 {
		return errResult("names is required and must be non-empty"), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	byName := e.engine.Graph(names)
	out := make(map[string]any, len(byName))
	for name, entry := range byName {
		if entry == nil {
			out[name] = nil
			continue
		}
		out[name] = map[string]any{
			"dependencies": dependencyInfo(entry.Dependencies),
			"impact":       impactResultInfo(entry.Impact),
			"fan_in":       entry.FanIn,
			"fan_out":      entry.FanOut,
			"instability":  entry.Instability,
		}
	}
	return jsonResult(map[string]any{"results": out}), nil
}

func (s *Server) handleStats(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	stats, err := e.engine.Stats(root)
	if err != nil {
		return errResult(err.Error()), nil
	}
	kindCounts := make(map[string]int, len(stats.KindCounts))
	for kind, n := range stats.KindCounts {
		kindCounts[string(kind)] = n
	}
	return jsonResult(map[string]any{
		"path":             root,
		"available":        stats.Available,
		"files_indexed":    stats.FilesIndexed,
		"symbols_indexed":  stats.SymbolsIndexed,
		"edges_indexed":    stats.EdgesIndexed,
		"kind_counts":      kindCounts,
		"store_size_bytes": stats.StoreSizeBytes,
		"last_build_at":    stats.LastBuildAt,
	}), nil
}

func (s *Server) handleOverview(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root, err := resolveRoot(getStringArg(args, "path"))
	if err != nil {
		return errResult(err.Error()), nil
	}
	e, err := s.engineFor(root)
	if err != nil {
		return errResult(err.Error()), nil
	}

	maxSymbols := getIntArg(args, "max_symbols", 20)
	ov, err := e.engine.Overview(maxSymbols)
	if err != nil {
		return errResult(err.Error()), nil
	}

	critical := make([]map[string]any, len(ov.Critical))
	for i, c := range ov.Critical {
		entry := symbolInfo(c.Symbol)
		entry["impact_count"] = c.ImpactCount
		entry["risk"] = string(c.Risk)
		critical[i] = entry
	}
	return jsonResult(map[string]any{
		"critical":         critical,
		"hot_files":        ov.HotFiles,
		"coupling_score":   ov.CouplingScore,
		"symbols_analysed": ov.SymbolsAnalysed,
	}), nil
}
