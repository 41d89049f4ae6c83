// Command xray indexes a source tree into a symbol graph and answers
// structural queries against it, either as subcommands on the CLI or as
// an MCP server over stdio.
//
// Usage:
//
//	xray build <path>                 Index (or reindex) a repository
//	xray find <query> [--path P]      Search the symbol graph by name
//	xray at <file> <line> [--path P]  Symbol covering a line
//	xray impact <name> [--path P]     Transitive dependents and risk
//	xray deps <name> [--path P]       Direct dependencies
//	xray stats [--path P]             Index size and availability
//	xray overview [--path P]          Most critical symbols, coupling score
//	xray batch <name...> [--path P]   Impact for several symbols at once
//	xray graph <name...> [--path P]   Deps/impact/fan-in/out per symbol
//	xray serve                        Run as an MCP server over stdio
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/fatih/color"
)

var version = "dev"

// globalFlags holds flags that apply across every subcommand.
type globalFlags struct {
	JSON    bool
	NoColor bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Print raw JSON instead of a formatted summary")
		noColor     = flag.Bool("no-color", false, "Disable colored output (respects NO_COLOR env var)")
	)
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `xray - structural code intelligence over a symbol graph

Usage:
  xray [global options] <command> [arguments] [--path P]

Commands:
  build <path>            Index (or reindex) a repository
  find <query>             Search the symbol graph by name
  at <file> <line>         Symbol covering a line
  impact <name>            Transitive dependents and risk tier
  deps <name>              Direct dependencies
  stats                    Index size and availability
  overview                 Most critical symbols and coupling score
  batch <name...>          Impact for several symbols at once
  graph <name...>          Deps/impact/fan-in/out per symbol
  serve                    Run as an MCP server over stdio

Command option (after the command; build takes <path> instead):
  --path P       Indexed root (default: current directory)

Global options (before the command):
  --json         Print raw JSON instead of a formatted summary
  --no-color     Disable colored output
  -V, --version  Show version and exit

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Println("xray", version)
		os.Exit(0)
	}
	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	color.NoColor = *noColor

	globals := globalFlags{JSON: *jsonOutput, NoColor: *noColor}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	var err error
	switch command {
	case "build":
		err = runBuild(cmdArgs, globals)
	case "find":
		err = runFind(cmdArgs, globals)
	case "at":
		err = runAt(cmdArgs, globals)
	case "impact":
		err = runImpact(cmdArgs, globals)
	case "deps":
		err = runDeps(cmdArgs, globals)
	case "stats":
		err = runStats(cmdArgs, globals)
	case "overview":
		err = runOverview(cmdArgs, globals)
	case "batch":
		err = runBatch(cmdArgs, globals)
	case "graph":
		err = runGraph(cmdArgs, globals)
	case "serve":
		err = runServe()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
