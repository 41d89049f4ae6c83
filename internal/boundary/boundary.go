// Package boundary exposes the indexer and query engine as MCP tools: the
// process-wide cache of per-root component bundles lives here, while core
// operations (internal/indexer, internal/query) stay pure over a
// (store, root) pair.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/codeintel/xray/internal/query"
	"github.com/codeintel/xray/internal/store"
	"github.com/codeintel/xray/internal/xerrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported in the MCP handshake.
const Version = "0.1.0"

// Server wraps the MCP server with the nine xray tool handlers.
type Server struct {
	mcp      *mcp.Server
	handlers map[string]mcp.ToolHandler

	mu      sync.Mutex
	engines map[string]*engineEntry // keyed by normalised absolute root
}

// engineEntry bundles a root's open store with its query engine so a root
// is only opened once per server lifetime.
type engineEntry struct {
	store  *store.Store
	engine *query.Engine
}

// NewServer creates an MCP server with all xray tools registered.
func NewServer() *Server {
	srv := &Server{
		handlers: make(map[string]mcp.ToolHandler),
		engines:  make(map[string]*engineEntry),
	}
	srv.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "xray", Version: Version},
		nil,
	)
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server, for transport wiring.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Close closes every store the server opened.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for _, e := range s.engines {
		if err := e.store.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.engines = make(map[string]*engineEntry)
	return first
}

func (s *Server) addTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mcp.AddTool(tool, handler)
	s.handlers[tool.Name] = handler
}

// CallTool invokes a tool handler directly by name, bypassing MCP
// transport. Used by every cmd/xray subcommand except serve.
func (s *Server) CallTool(ctx context.Context, name string, argsJSON json.RawMessage) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if len(argsJSON) == 0 {
		argsJSON = json.RawMessage(`{}`)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}
	return handler(ctx, req)
}

// ToolNames returns all registered tool names in sorted order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveRoot expands a leading "~" and normalises path to an absolute
// directory, rejecting anything that is not a directory.
func resolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &xerrors.InvalidPath{Path: path, Err: err}
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &xerrors.InvalidPath{Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", &xerrors.InvalidPath{Path: path, Err: err}
	}
	return abs, nil
}

// engineFor opens (or reuses a cached) store+engine bundle for root, so a
// session that queries the same root repeatedly pays the SQLite-open cost
// once. xray_build reuses the same cached store handle to reindex, so
// writes are visible to that entry's engine without a reopen.
func (s *Server) engineFor(root string) (*engineEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[root]; ok {
		return e, nil
	}
	st, err := store.Open(root)
	if err != nil {
		return nil, err
	}
	slog.Info("boundary.engine.opened", "root", root)
	e := &engineEntry{store: st, engine: query.New(st)}
	s.engines[root] = e
	return e, nil
}

// --- response helpers ---

func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	slog.Warn("boundary.tool.err", "msg", msg)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getStringSliceArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
