package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	mcpserver "github.com/gnana997/modgraph/pkg/mcp"
	"github.com/gnana997/modgraph/pkg/mcplog"
	"github.com/gnana997/modgraph/pkg/resolver"
	"github.com/gnana997/modgraph/pkg/service"
	"github.com/gnana997/modgraph/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &ProjectConfig{}
	}

	logger := util.NewLogger(loggerConfig(cfg))
	svc, err := service.New(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	command := os.Args[1]
	switch command {
	case "resolve":
		runResolve(svc, cfg, os.Args[2:])
	case "typings":
		runTypings(svc, os.Args[2:])
	case "analyze":
		runAnalyze(svc, os.Args[2:])
	case "serve":
		runServe(svc, cfg, os.Args[2:])
	case "version":
		fmt.Printf("modgraph %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runResolve(svc *service.Service, cfg *ProjectConfig, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	root := fs.String("root", "", "project root (node_modules search ceiling)")
	cjs := fs.Bool("cjs", cfg.PreferCJS, "prefer the require condition")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: modgraph resolve [flags] <specifier> <importer>")
		os.Exit(2)
	}

	opts := service.BuildOptions(cfg.Conditions, cfg.Extensions, *cjs)
	resp, err := svc.Resolve(resolver.Request{
		Specifier:   fs.Arg(0),
		Importer:    fs.Arg(1),
		ProjectRoot: *root,
	}, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(resp)
}

func runTypings(svc *service.Service, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: modgraph typings <package> <project-root>")
		os.Exit(2)
	}
	printJSON(svc.DiscoverTypings(args[0], args[1]))
}

func runAnalyze(svc *service.Service, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: modgraph analyze <file>")
		os.Exit(2)
	}
	resp, err := svc.Analyze(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(resp)
}

func runServe(svc *service.Service, cfg *ProjectConfig, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	root := fs.String("root", "", "project root to watch for node_modules changes")
	toolLog := fs.String("tool-log", cfg.ToolLogPath, "JSONL tool-call log path (empty disables)")
	fs.Parse(args)

	callLog, err := mcplog.NewLogger(*toolLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open tool log: %v\n", err)
		os.Exit(1)
	}
	if callLog != nil {
		defer callLog.Close()
	}

	if *root != "" {
		watcher, err := service.NewInvalidationWatcher(svc, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create watcher: %v\n", err)
			os.Exit(1)
		}
		if err := watcher.Start(*root); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
			os.Exit(1)
		}
		defer watcher.Stop()
	}

	srv := mcpserver.NewServer(svc, callLog)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func loggerConfig(cfg *ProjectConfig) util.LoggerConfig {
	lc := util.DefaultLoggerConfig()
	if cfg.LogLevel != "" {
		lc.Level = util.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		lc.Format = util.LogFormat(cfg.LogFormat)
	}
	return lc
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printUsage() {
	fmt.Println("Usage: modgraph <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  resolve    Resolve a module specifier from an importing file")
	fmt.Println("  typings    Discover .d.ts files for an installed package")
	fmt.Println("  analyze    Summarize a source file's imports and exports")
	fmt.Println("  serve      Start the MCP server on stdio")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
