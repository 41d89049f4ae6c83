package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/codeintel/xray/internal/boundary"
)

func runBuild(args []string, g globalFlags) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fs.Parse(args)

	path := "."
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	var bar *progressbar.ProgressBar
	if !g.JSON {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("indexing "+path),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetWriter(os.Stderr),
		)
		stop := animateSpinner(bar)
		defer stop()
	}

	srv := boundary.NewServer()
	defer srv.Close()

	argsJSON, _ := json.Marshal(map[string]any{"path": path})
	result, err := srv.CallTool(context.Background(), "xray_build", argsJSON)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	return printResult(result, g, printBuildSummary)
}

func printBuildSummary(data map[string]any) {
	fmt.Printf("%s %v\n", color.GreenString("indexed"), data["path"])
	fmt.Printf("  files:   %d\n", jsonInt(data["files_indexed"]))
	fmt.Printf("  symbols: %d\n", jsonInt(data["symbols_indexed"]))
	fmt.Printf("  edges:   %d\n", jsonInt(data["edges_created"]))
	fmt.Printf("  time:    %dms\n", jsonInt(data["duration_ms"]))
	if errs, ok := data["parse_errors"].([]any); ok && len(errs) > 0 {
		fmt.Println(color.YellowString("  parse errors:"))
		for _, e := range errs {
			fmt.Printf("    - %v\n", e)
		}
	}
}
