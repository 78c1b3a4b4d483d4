package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/region-tree-mcp/internal/config"
	"github.com/ironsheep/region-tree-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	envConfig   = "REGION_TREE_MCP_CONFIG"
	envLogLevel = "REGION_TREE_MCP_LOG_LEVEL"
)

func usage() {
	fmt.Println("region-tree-mcp - MCP server for component tree analysis of images")
	fmt.Println()
	fmt.Println("Usage: region-tree-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH        Load configuration from a YAML file")
	fmt.Println("  --write-config PATH  Write the default configuration to PATH and exit")
	fmt.Println("  --version, -v        Print version information")
	fmt.Println("  --help, -h           Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=PATH    Configuration file (overridden by --config)\n", envConfig)
	fmt.Printf("  %s=debug   Enable debug logging\n", envLogLevel)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	configPath := os.Getenv(envConfig)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("region-tree-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "--config", "--write-config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a path\n", args[i])
				os.Exit(2)
			}
			if args[i] == "--write-config" {
				if err := config.SaveConfig(config.DefaultConfig(), args[i+1]); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
				fmt.Printf("Wrote default configuration to %s\n", args[i+1])
				return
			}
			configPath = args[i+1]
			i++
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n\n", args[i])
			usage()
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
	}
	if level := os.Getenv(envLogLevel); level != "" {
		cfg.Server.LogLevel = level
	}

	if cfg.Debug() {
		log.Printf("Region Tree MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Tree: max level %d, order %s, sort by top row %v; tree cache %v",
			cfg.Tree.MaxLevel, cfg.Tree.Order, cfg.Tree.SortByTopRow, cfg.Server.CacheTrees)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
