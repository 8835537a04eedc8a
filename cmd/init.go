package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/tablescope/tablescope-cli/internal/config"
	"github.com/tablescope/tablescope-cli/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the TableScope workspace (~/.tablescope)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workspace dir: %w", err)
		}

		cfgPath := filepath.Join(dir, "config.yaml")
		catPath := filepath.Join(dir, "catalog.json")

		_, cfgErr := os.Stat(cfgPath)
		_, catErr := os.Stat(catPath)
		if cfgErr == nil && catErr == nil {
			return fmt.Errorf("workspace already initialized at %s", dir)
		}

		// Refuse to overwrite whichever files already exist.
		if cfgErr == nil {
			fmt.Printf("⚠ Config already exists: %s\n", cfgPath)
		} else {
			c := cfg
			if c == nil {
				loaded, err := cfgpkg.Load(cfgFile)
				if err != nil {
					return err
				}
				c = loaded
			}
			if err := cfgpkg.Save(c, cfgPath); err != nil {
				return err
			}
			fmt.Printf("✓ Created %s\n", cfgPath)
		}

		if catErr == nil {
			fmt.Printf("⚠ Catalog already exists: %s\n", catPath)
		} else {
			if err := store.NewCatalog(catPath).Save(); err != nil {
				return err
			}
			fmt.Printf("✓ Created %s\n", catPath)
		}

		fmt.Printf("✓ Workspace initialized: %s\n", dir)
		return nil
	},
}

// catalogPath resolves the catalog file from config, expanding a leading
// '~' the way the shell would, and falls back to ~/.tablescope/catalog.json.
func catalogPath() (string, error) {
	if cfg != nil && cfg.CatalogFile != "" {
		p := cfg.CatalogFile
		if strings.HasPrefix(p, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			p = strings.TrimPrefix(p, "~")
			p = strings.TrimPrefix(p, string(os.PathSeparator))
			p = strings.TrimPrefix(p, "/")
			p = filepath.Join(home, p)
		}
		return filepath.Clean(p), nil
	}
	return store.DefaultPath()
}

func init() {
	rootCmd.AddCommand(initCmd)
}
