package boundary

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all nine xray MCP tools.
func (s *Server) registerTools() {
	s.registerBuildTool()
	s.registerSearchTools()
	s.registerImpactTools()
	s.registerOverviewTools()
}

func (s *Server) registerBuildTool() {
	s.addTool(&mcp.Tool{
		Name:        "xray_build",
		Description: "Index (or reindex) a source tree into the symbol graph. Parses every recognised source file, extracts functions/methods/classes, resolves call and import relationships, and persists the result under <path>/.xray/xray.db. Safe to call repeatedly; each call fully replaces the prior build for that path.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "Root directory to index. Relative and tilde-prefixed paths are accepted."}
			},
			"required": ["path"]
		}`),
	}, s.handleBuild)
}

func (s *Server) registerSearchTools() {
	s.addTool(&mcp.Tool{
		Name:        "xray_find_symbol",
		Description: "Search the symbol graph by name. Matches are ranked exact, then prefix, then substring, and report which alias and alias type matched. Use this first when you only know part of a name.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Name, partial name, or canonical ID to search for."},
				"limit": {"type": "integer", "description": "Maximum results to return (default 10)."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["query"]
		}`),
	}, s.handleFindSymbol)

	s.addTool(&mcp.Tool{
		Name:        "xray_symbol_at",
		Description: "Return the innermost symbol of any kind (e.g. function, method, class, import) whose declaration span covers the given line in file, or null if none does.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "File path, relative to the indexed root."},
				"line": {"type": "integer", "description": "1-based line number."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["file", "line"]
		}`),
	}, s.handleSymbolAt)
}

func (s *Server) registerImpactTools() {
	s.addTool(&mcp.Tool{
		Name:        "xray_impact",
		Description: "Compute the transitive closure of dependents of a symbol (who would be affected by changing it), grouped by BFS depth and by file, with a count-based risk tier and plain-language reasoning. Use before modifying or removing a symbol.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Symbol name or canonical ID."},
				"max_depth": {"type": "integer", "description": "Maximum BFS hops to follow (0 returns only the seed, default 5)."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["name"]
		}`),
	}, s.handleImpact)

	s.addTool(&mcp.Tool{
		Name:        "xray_dependencies",
		Description: "List the direct, single-hop dependencies of a symbol (what it calls, imports, or accesses).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Symbol name or canonical ID."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["name"]
		}`),
	}, s.handleDependencies)

	s.addTool(&mcp.Tool{
		Name:        "xray_batch_impact",
		Description: "Run xray_impact independently for each name in a list, returning a map of name to impact result. No cross-symbol optimisation is performed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"names": {"type": "array", "items": {"type": "string"}, "description": "Symbol names or canonical IDs."},
				"max_depth": {"type": "integer", "description": "Maximum BFS hops per name (default 5)."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["names"]
		}`),
	}, s.handleBatchImpact)

	s.addTool(&mcp.Tool{
		Name:        "xray_dep_graph",
		Description: "Return, for each of a list of symbol names, its direct dependencies, its depth-3 impact, and fan-in/fan-out/instability metrics.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"names": {"type": "array", "items": {"type": "string"}, "description": "Symbol names or canonical IDs."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			},
			"required": ["names"]
		}`),
	}, s.handleDepGraph)
}

func (s *Server) registerOverviewTools() {
	s.addTool(&mcp.Tool{
		Name:        "xray_stats",
		Description: "Report on the index itself: file/symbol/edge counts, a symbol-kind histogram, on-disk store size, and whether a build has completed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			}
		}`),
	}, s.handleStats)

	s.addTool(&mcp.Tool{
		Name:        "xray_overview",
		Description: "Rank the most structurally critical symbols in the codebase by incoming-edge count and depth-3 impact, alongside a project-wide coupling score and the files with the most aggregate impact. Use for orientation in an unfamiliar codebase.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"max_symbols": {"type": "integer", "description": "Maximum candidate symbols to analyse (default 20)."},
				"path": {"type": "string", "description": "Indexed root. Defaults to the current directory."}
			}
		}`),
	}, s.handleOverview)
}
