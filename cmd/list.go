package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablescope/tablescope-cli/internal/store"
)

var listLong bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiled datasets, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := catalogPath()
		if err != nil {
			return err
		}
		cat, err := store.Load(cp)
		if err != nil {
			return err
		}
		entries := cat.List()
		if len(entries) == 0 {
			fmt.Println("(no datasets profiled yet)")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("- %s: %d rows x %d cols, %.1f%% complete, %d insight(s) [%s]\n",
				e.Name, e.RowCount, e.ColumnCount, e.Completeness, e.Insights,
				e.ProfiledAt.Local().Format("2006-01-02 15:04"))
			if listLong {
				fmt.Printf("    id=%s path=%s format=%s anomalies=%d gaps=%d tokens≈%d\n",
					e.ID, e.Path, e.Format, e.Anomalies, e.Gaps, e.Tokens)
				if e.OutputPath != "" {
					fmt.Printf("    output=%s\n", e.OutputPath)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show entry ids, paths, and counts")
}
