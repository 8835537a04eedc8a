package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope-cli/internal/analysis"
	"github.com/tablescope/tablescope-cli/internal/parser"
	"github.com/tablescope/tablescope-cli/internal/render"
	"github.com/tablescope/tablescope-cli/internal/store"
)

var (
	profJSON       bool
	profOutput     string
	profTop        int
	profOutlierThr float64
	profMinCorr    float64
	profNoTemporal bool
	profSheetName  string
	profSheetIndex int
	profDelimiter  string
	profSampleRows int
	profTokenLimit int
	profNoCatalog  bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV/TSV/XLSX dataset and render an AI-ready summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		popt := parser.DefaultOptions()
		if cfg != nil && cfg.SampleRows >= 0 {
			popt.SampleRows = cfg.SampleRows
		}
		if cmd.Flags().Changed("sample-rows") && profSampleRows >= 0 {
			popt.SampleRows = profSampleRows
		}
		if profDelimiter != "" {
			d, err := delimiterRune(profDelimiter)
			if err != nil {
				return err
			}
			popt.Delimiter = d
		}
		popt.SheetName = profSheetName
		popt.SheetIndex = profSheetIndex

		table, err := parser.ParseFile(path, popt)
		if err != nil {
			return err
		}

		prof := analysis.Profile(table, engineOptions(cmd, profTop, profOutlierThr, profMinCorr, profNoTemporal))

		format := outputFormat(cmd, profJSON)
		out, err := renderProfile(table, prof, format)
		if err != nil {
			return err
		}

		tokens := render.CountTokens(out)
		if profTokenLimit > 0 && tokens > profTokenLimit {
			fmt.Printf("⚠ Profile exceeds limit (%d > %d). Truncating...\n", tokens, profTokenLimit)
			out = render.TruncateToTokenLimit(out, profTokenLimit)
			tokens = render.CountTokens(out)
		}
		fields := []zap.Field{
			zap.String("dataset", prof.Name),
			zap.String("format", format),
			zap.Int("tokens", tokens),
		}
		if format == "markdown" {
			fields = append(fields, zap.Any("block_tokens", render.BlockBreakdown(out)))
		}
		logger.Debug("profile rendered", fields...)

		written := false
		if profOutput != "" {
			if err := os.WriteFile(profOutput, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write profile: %w", err)
			}
			fmt.Printf("✓ Wrote profile to %s\n", profOutput)
			written = true
		}
		if !written {
			fmt.Println(out)
		}

		if !profNoCatalog {
			if err := recordEntry(path, format, profOutput, tokens, prof); err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: failed to update catalog: %v\n", err)
			}
		}
		return nil
	},
}

// delimiterRune maps the --delimiter flag spelling onto a CSV separator.
func delimiterRune(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab')", s)
	}
}

// engineOptions layers flag overrides on top of the loaded configuration.
func engineOptions(cmd *cobra.Command, top int, outlierThr, minCorr float64, noTemporal bool) analysis.Options {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		opt = cfg.EngineOptions()
	}
	f := cmd.Flags()
	if f.Changed("top") && top > 0 {
		opt.MaxTopValues = top
	}
	if f.Changed("outlier-threshold") && outlierThr > 0 {
		opt.OutlierThreshold = outlierThr
	}
	if f.Changed("min-correlation") {
		opt.MinCorrelation = minCorr
	}
	if noTemporal {
		opt.DetectTemporal = false
	}
	opt.Logger = logger
	return opt
}

// outputFormat resolves markdown vs json: flag beats config beats default.
func outputFormat(cmd *cobra.Command, jsonFlag bool) string {
	format := "markdown"
	if cfg != nil && strings.EqualFold(strings.TrimSpace(cfg.OutputFormat), "json") {
		format = "json"
	}
	if cmd.Flags().Changed("json") {
		if jsonFlag {
			format = "json"
		} else {
			format = "markdown"
		}
	}
	return format
}

func renderProfile(t *analysis.ParsedTable, p *analysis.DatasetProfile, format string) (string, error) {
	if format == "json" {
		s, err := render.JSON(p)
		if err != nil {
			return "", fmt.Errorf("render json: %w", err)
		}
		return s, nil
	}
	return render.Markdown(t, p), nil
}

// recordEntry upserts a catalog entry for the profiled file. Entries key on
// absolute path, so repeated runs update rather than duplicate.
func recordEntry(path, format, outputPath string, tokens int, p *analysis.DatasetProfile) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cp, err := catalogPath()
	if err != nil {
		return err
	}
	cat, err := store.Load(cp)
	if err != nil {
		return err
	}
	e := store.Summarize(path, format, p)
	e.Tokens = tokens
	e.OutputPath = outputPath
	cat.Record(e)
	return cat.Save()
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolVar(&profJSON, "json", false, "render the profile as JSON instead of markdown")
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "write the rendered profile to a file instead of stdout")
	profileCmd.Flags().IntVar(&profTop, "top", 0, "number of top values per categorical column")
	profileCmd.Flags().Float64Var(&profOutlierThr, "outlier-threshold", 0, "standard-deviation multiple for outlier detection")
	profileCmd.Flags().Float64Var(&profMinCorr, "min-correlation", 0, "minimum |r| for reported correlations (0 reports all)")
	profileCmd.Flags().BoolVar(&profNoTemporal, "no-temporal", false, "disable temporal column detection")
	profileCmd.Flags().StringVar(&profSheetName, "sheet-name", "", "XLSX: sheet name to profile")
	profileCmd.Flags().IntVar(&profSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	profileCmd.Flags().StringVar(&profDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 5, "number of sample rows to include")
	profileCmd.Flags().IntVar(&profTokenLimit, "token-limit", 0, "truncate rendered output to roughly this many tokens (0 = no limit)")
	profileCmd.Flags().BoolVar(&profNoCatalog, "no-catalog", false, "skip recording this profile in the catalog")
}
