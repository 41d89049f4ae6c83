package main

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/codeintel/xray/internal/boundary"
)

func runImpact(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("impact", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	maxDepth := fs.Int("max-depth", 5, "Maximum BFS hops")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: xray impact <name> [--path P] [--max-depth N]")
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{
		"path": *path, "name": fs.Arg(0), "max_depth": *maxDepth,
	})
	result, err := srv.CallTool(context.Background(), "xray_impact", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printImpactSummary)
}

func printImpactSummary(data map[string]any) {
	seed, _ := data["seed"].(map[string]any)
	fmt.Printf("%s (%s)\n", jsonStr(seed["name"]), jsonStr(seed["location"]))
	fmt.Printf("  risk:       %s\n", riskString(jsonStr(data["risk"])))
	fmt.Printf("  total hits: %d\n", jsonInt(data["total_hits"]))
	if reasoning, ok := data["reasoning"].([]any); ok {
		for _, r := range reasoning {
			fmt.Printf("  - %v\n", r)
		}
	}
	byFile, _ := data["by_file"].(map[string]any)
	for file, names := range byFile {
		list, _ := names.([]any)
		fmt.Printf("  %s (%d)\n", file, len(list))
	}
}

func runDeps(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("deps", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: xray deps <name> [--path P]")
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{"path": *path, "name": fs.Arg(0)})
	result, err := srv.CallTool(context.Background(), "xray_dependencies", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printDepsSummary)
}

func printDepsSummary(data map[string]any) {
	deps, _ := data["dependencies"].([]any)
	if len(deps) == 0 {
		if reasoning, ok := data["reasoning"].([]any); ok && len(reasoning) > 0 {
			for _, r := range reasoning {
				fmt.Println(r)
			}
			return
		}
		fmt.Printf("%s has no recorded dependencies\n", jsonStr(data["name"]))
		return
	}
	for _, d := range deps {
		dep, ok := d.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("%-30s %-10s %-8s %s\n", jsonStr(dep["name"]), jsonStr(dep["kind"]), jsonStr(dep["edge_type"]), jsonStr(dep["location"]))
	}
}

func runBatch(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	maxDepth := fs.Int("max-depth", 5, "Maximum BFS hops")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: xray batch <name...> [--path P] [--max-depth N]")
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{
		"path": *path, "names": fs.Args(), "max_depth": *maxDepth,
	})
	result, err := srv.CallTool(context.Background(), "xray_batch_impact", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printBatchSummary)
}

func printBatchSummary(data map[string]any) {
	results, _ := data["results"].(map[string]any)
	for name, v := range results {
		entry, ok := v.(map[string]any)
		if !ok {
			fmt.Printf("%-30s (lookup failed)\n", name)
			continue
		}
		fmt.Printf("%-30s risk=%-8s hits=%d\n", name, riskString(jsonStr(entry["risk"])), jsonInt(entry["total_hits"]))
	}
}

func runGraph(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	path := fs.String("path", ".", "Indexed root")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: xray graph <name...> [--path P]")
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{"path": *path, "names": fs.Args()})
	result, err := srv.CallTool(context.Background(), "xray_dep_graph", argsJSON)
	if err != nil {
		return err
	}
	return printResult(result, g, printGraphSummary)
}

func printGraphSummary(data map[string]any) {
	results, _ := data["results"].(map[string]any)
	for name, v := range results {
		entry, ok := v.(map[string]any)
		if !ok {
			fmt.Printf("%-30s (lookup failed)\n", name)
			continue
		}
		fmt.Printf("%-30s fan_in=%-4d fan_out=%-4d instability=%.2f\n",
			name, jsonInt(entry["fan_in"]), jsonInt(entry["fan_out"]), entry["instability"])
	}
}
