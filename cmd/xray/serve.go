package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeintel/xray/internal/boundary"
)

// runServe runs xray as an MCP server over stdio until the client closes
// the connection or the process receives a termination signal.
func runServe() error {
	srv := boundary.NewServer()
	defer srv.Close()

	ctx := context.Background()
	if err := srv.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
