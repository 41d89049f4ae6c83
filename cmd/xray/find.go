package main

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/codeintel/xray/internal/boundary"
)

func runFind(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	limit := fs.Int("limit", 10, "Maximum results")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: xray find <query> [--path P] [--limit N]")
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{
		"path": *path, "query": fs.Arg(0), "limit": *limit,
	})
	result, err := srv.CallTool(context.Background(), "xray_find_symbol", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printFindSummary)
}

func printFindSummary(data map[string]any) {
	results, _ := data["results"].([]any)
	if len(results) == 0 {
		fmt.Printf("no matches for %q\n", jsonStr(data["query"]))
		return
	}
	for _, r := range results {
		sym, ok := r.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("%-30s %-10s %s", jsonStr(sym["name"]), jsonStr(sym["kind"]), jsonStr(sym["location"]))
		if by, ok := sym["matched_by"]; ok {
			fmt.Printf("  (matched alias %q, %s)", by, jsonStr(sym["matched_alias_type"]))
		}
		fmt.Println()
	}
}

func runAt(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("at", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: xray at <file> <line> [--path P]")
	}
	var line int
	if _, err := fmt.Sscanf(fs.Arg(1), "%d", &line); err != nil {
		return fmt.Errorf("invalid line number %q: %w", fs.Arg(1), err)
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{
		"path": *path, "file": fs.Arg(0), "line": line,
	})
	result, err := srv.CallTool(context.Background(), "xray_symbol_at", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printAtSummary)
}

func printAtSummary(data map[string]any) {
	sym, ok := data["symbol"].(map[string]any)
	if !ok {
		fmt.Printf("no symbol covers %s:%d\n", jsonStr(data["file"]), jsonInt(data["line"]))
		return
	}
	fmt.Printf("%s  %s  %s\n", jsonStr(sym["name"]), jsonStr(sym["kind"]), jsonStr(sym["location"]))
	if sig := jsonStr(sym["signature"]); sig != "" {
		fmt.Printf("  %s\n", sig)
	}
}
