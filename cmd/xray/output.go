package main

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// printResult extracts the JSON text from a tool result and either prints
// it raw (--json) or decodes it and hands it to a tool-specific summary
// printer.
func printResult(result *mcp.CallToolResult, g globalFlags, summarize func(map[string]any)) error {
	text := resultText(result)
	if result.IsError {
		return fmt.Errorf("%s", text)
	}
	if g.JSON {
		fmt.Println(text)
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		fmt.Println(text)
		return nil
	}
	summarize(data)
	return nil
}

func resultText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

// jsonInt extracts an int from a value that may have come through a JSON
// decode as float64, or already be an int.
func jsonInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func jsonStr(v any) string {
	s, _ := v.(string)
	return s
}
