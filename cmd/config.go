package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/tablescope/tablescope-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TableScope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("max_top_values: %d\n", cfg.MaxTopValues)
		fmt.Printf("outlier_threshold: %.3f\n", cfg.OutlierThreshold)
		fmt.Printf("min_correlation: %.3f\n", cfg.MinCorrelation)
		fmt.Printf("detect_temporal: %t\n", cfg.DetectTemporal)
		fmt.Printf("sample_rows: %d\n", cfg.SampleRows)
		fmt.Printf("catalog_file: %s\n", cfg.CatalogFile)
		fmt.Printf("output_format: %s\n", cfg.OutputFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "max_top_values":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_top_values: %v", val)
			}
			cfg.MaxTopValues = i
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for outlier_threshold: %v", val)
			}
			cfg.OutlierThreshold = f
		case "min_correlation":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for min_correlation: %v (use 0..1)", val)
			}
			cfg.MinCorrelation = f
		case "detect_temporal":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for detect_temporal: %v", val)
			}
			cfg.DetectTemporal = b
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			cfg.SampleRows = i
		case "catalog_file":
			cfg.CatalogFile = val
		case "output_format":
			switch val {
			case "markdown", "md", "Markdown", "MARKDOWN":
				cfg.OutputFormat = "markdown"
			case "json", "JSON":
				cfg.OutputFormat = "json"
			default:
				return fmt.Errorf("invalid output_format: %s (use markdown or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
