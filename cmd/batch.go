package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablescope/tablescope-cli/internal/analysis"
	"github.com/tablescope/tablescope-cli/internal/parser"
	"github.com/tablescope/tablescope-cli/internal/render"
	"github.com/tablescope/tablescope-cli/internal/store"
)

var (
	batchJSON       bool
	batchOutputDir  string
	batchTop        int
	batchOutlierThr float64
	batchMinCorr    float64
	batchNoTemporal bool
	batchSheetName  string
	batchSheetIndex int
	batchDelimiter  string
	batchSampleRows int
	batchTokenLimit int
	batchNoCatalog  bool
	batchQuiet      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Profile multiple CSV/TSV/XLSX files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandArgs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		popt := parser.DefaultOptions()
		if cfg != nil && cfg.SampleRows >= 0 {
			popt.SampleRows = cfg.SampleRows
		}
		if cmd.Flags().Changed("sample-rows") && batchSampleRows >= 0 {
			popt.SampleRows = batchSampleRows
		}
		if batchDelimiter != "" {
			d, err := delimiterRune(batchDelimiter)
			if err != nil {
				return err
			}
			popt.Delimiter = d
		}
		popt.SheetName = batchSheetName
		popt.SheetIndex = batchSheetIndex

		eopt := engineOptions(cmd, batchTop, batchOutlierThr, batchMinCorr, batchNoTemporal)
		format := outputFormat(cmd, batchJSON)

		if batchOutputDir != "" {
			if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		var cat *store.Catalog
		if !batchNoCatalog {
			cp, err := catalogPath()
			if err != nil {
				return err
			}
			c, err := store.Load(cp)
			if err != nil {
				return err
			}
			cat = c
		}

		total := len(files)
		failed := 0
		totalTokens := 0
		for i, path := range files {
			if !batchQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			tokens, err := batchOne(path, popt, eopt, format, cat)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "⚠ Skipping %s: %v\n", filepath.Base(path), err)
				continue
			}
			totalTokens += tokens
		}

		const maxBatchTokens = 150000
		if totalTokens >= maxBatchTokens && !batchQuiet {
			fmt.Printf("⚠ WARNING: Batch produced %d tokens of profile output (recommended max: %d)\n", totalTokens, maxBatchTokens)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandArgs globs each argument, falling back to literal paths, and
// deduplicates while preserving first-seen entries.
func expandArgs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

func batchOne(path string, popt parser.Options, eopt analysis.Options, format string, cat *store.Catalog) (int, error) {
	table, err := parser.ParseFile(path, popt)
	if err != nil {
		return 0, err
	}
	prof := analysis.Profile(table, eopt)
	out, err := renderProfile(table, prof, format)
	if err != nil {
		return 0, err
	}

	tokens := render.CountTokens(out)
	if batchTokenLimit > 0 && tokens > batchTokenLimit {
		if !batchQuiet {
			fmt.Printf("⚠ Profile exceeds limit (%d > %d). Truncating...\n", tokens, batchTokenLimit)
		}
		out = render.TruncateToTokenLimit(out, batchTokenLimit)
		tokens = render.CountTokens(out)
	}

	outFile := ""
	if batchOutputDir != "" {
		outFile = batchOutFile(path, format)
		if err := os.WriteFile(outFile, []byte(out), 0o644); err != nil {
			return 0, fmt.Errorf("write profile: %w", err)
		}
		if !batchQuiet {
			fmt.Printf("✓ Wrote profile to %s\n", outFile)
		}
	} else if !batchQuiet {
		fmt.Println(out)
	}

	if cat != nil {
		abs := path
		if a, err := filepath.Abs(path); err == nil {
			abs = a
		}
		e := store.Summarize(abs, format, prof)
		e.Tokens = tokens
		e.OutputPath = outFile
		cat.Record(e)
		if err := cat.Save(); err != nil {
			return 0, fmt.Errorf("save catalog: %w", err)
		}
	}
	return tokens, nil
}

// batchOutFile picks <base>.profile.md|json inside --output-dir, suffixing
// __2, __3, ... rather than overwriting an existing profile.
func batchOutFile(path, format string) string {
	ext := ".profile.md"
	if format == "json" {
		ext = ".profile.json"
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outFile := filepath.Join(batchOutputDir, base+ext)
	if _, err := os.Stat(outFile); err == nil {
		idx := 2
		for {
			cand := filepath.Join(batchOutputDir, fmt.Sprintf("%s__%d%s", base, idx, ext))
			if _, err := os.Stat(cand); os.IsNotExist(err) {
				if !batchQuiet {
					fmt.Printf("⚠ Detected existing profile, writing to %s to avoid overwrite.\n", filepath.Base(cand))
				}
				outFile = cand
				break
			}
			idx++
		}
	}
	return outFile
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "render profiles as JSON instead of markdown")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "write one profile file per input into this directory")
	batchCmd.Flags().IntVar(&batchTop, "top", 0, "number of top values per categorical column")
	batchCmd.Flags().Float64Var(&batchOutlierThr, "outlier-threshold", 0, "standard-deviation multiple for outlier detection")
	batchCmd.Flags().Float64Var(&batchMinCorr, "min-correlation", 0, "minimum |r| for reported correlations (0 reports all)")
	batchCmd.Flags().BoolVar(&batchNoTemporal, "no-temporal", false, "disable temporal column detection")
	batchCmd.Flags().StringVar(&batchSheetName, "sheet-name", "", "XLSX: sheet name to profile")
	batchCmd.Flags().IntVar(&batchSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	batchCmd.Flags().StringVar(&batchDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	batchCmd.Flags().IntVar(&batchSampleRows, "sample-rows", 5, "number of sample rows to include")
	batchCmd.Flags().IntVar(&batchTokenLimit, "token-limit", 0, "truncate each rendered profile to roughly this many tokens (0 = no limit)")
	batchCmd.Flags().BoolVar(&batchNoCatalog, "no-catalog", false, "skip recording profiles in the catalog")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress and non-essential output")
}
