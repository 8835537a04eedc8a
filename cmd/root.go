package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/tablescope/tablescope-cli/internal/config"
)

var (
	// Global flags (wired to config/viper in loadConfig)
	cfgFile string
	verbose bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// logger is handed to the profiling engine; Nop unless --verbose.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tablescope",
	Short: "TableScope CLI: profile tabular datasets into AI-ready summaries",
	Long:  `TableScope is a CLI tool that profiles CSV/TSV/XLSX datasets (column types, distributions, correlations, data quality) and renders the results as prompt-block markdown or JSON for LLM consumption.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tablescope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

func loadConfig() {
	if verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
		if l, err := zcfg.Build(); err == nil {
			logger = l
		}
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}
