package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

// Global configuration structure.
type Global struct {
	MaxTopValues     int     `mapstructure:"max_top_values" yaml:"max_top_values"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	MinCorrelation   float64 `mapstructure:"min_correlation" yaml:"min_correlation"`
	DetectTemporal   bool    `mapstructure:"detect_temporal" yaml:"detect_temporal"`
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	CatalogFile      string  `mapstructure:"catalog_file" yaml:"catalog_file"`
	OutputFormat     string  `mapstructure:"output_format" yaml:"output_format"`
}

// EngineOptions maps the configured knobs onto profiling options.
func (c *Global) EngineOptions() analysis.Options {
	return analysis.Options{
		MaxTopValues:     c.MaxTopValues,
		OutlierThreshold: c.OutlierThreshold,
		MinCorrelation:   c.MinCorrelation,
		DetectTemporal:   c.DetectTemporal,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.tablescope/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablescope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLESCOPE")
	v.AutomaticEnv()

	v.SetDefault("max_top_values", analysis.DefaultMaxTopValues)
	v.SetDefault("outlier_threshold", analysis.DefaultOutlierThreshold)
	v.SetDefault("min_correlation", analysis.DefaultMinCorrelation)
	v.SetDefault("detect_temporal", true)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("output_format", "markdown")
	// Registered empty so env overrides bind; resolved to the workspace
	// default after unmarshal.
	v.SetDefault("catalog_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablescope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve catalog_file default: ~/.tablescope/catalog.json
	if c.CatalogFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.CatalogFile = filepath.Join(home, ".tablescope", "catalog.json")
	}
	return &c, nil
}
