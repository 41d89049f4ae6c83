package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	flag "github.com/spf13/pflag"

	"github.com/codeintel/xray/internal/boundary"
)

func runStats(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	fs.Parse(args)

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{"path": *path})
	result, err := srv.CallTool(context.Background(), "xray_stats", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printStatsSummary)
}

func printStatsSummary(data map[string]any) {
	if avail, ok := data["available"].(bool); !ok || !avail {
		fmt.Println("no build found; run 'xray build' first")
		return
	}
	fmt.Printf("files:   %d\n", jsonInt(data["files_indexed"]))
	fmt.Printf("symbols: %d\n", jsonInt(data["symbols_indexed"]))
	fmt.Printf("edges:   %d\n", jsonInt(data["edges_indexed"]))
	fmt.Printf("size:    %d bytes\n", jsonInt(data["store_size_bytes"]))
	if kc, ok := data["kind_counts"].(map[string]any); ok {
		kinds := make([]string, 0, len(kc))
		for k := range kc {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-12s %d\n", k, jsonInt(kc[k]))
		}
	}
}

func runOverview(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("overview", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	maxSymbols := fs.Int("max-symbols", 20, "Maximum candidate symbols")
	fs.Parse(args)

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{"path": *path, "max_symbols": *maxSymbols})
	result, err := srv.CallTool(context.Background(), "xray_overview", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printOverviewSummary)
}

func printOverviewSummary(data map[string]any) {
	fmt.Printf("coupling score: %.2f (over %d symbols)\n", data["coupling_score"], jsonInt(data["symbols_analysed"]))
	fmt.Println("most critical:")
	critical, _ := data["critical"].([]any)
	for _, c := range critical {
		entry, ok := c.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  %-30s impact=%-5d risk=%s\n", jsonStr(entry["name"]), jsonInt(entry["impact_count"]), riskString(jsonStr(entry["risk"])))
	}
	if hot, ok := data["hot_files"].([]any); ok && len(hot) > 0 {
		fmt.Println("hot files:")
		for _, f := range hot {
			fmt.Printf("  %v\n", f)
		}
	}
}
