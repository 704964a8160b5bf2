// Package configs loads the CLI configuration from YAML files via viper,
// layering file values over built-in defaults.
package configs

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sonigraph/sonigraph/embedding"
)

// AppConfig is the CLI-facing configuration
type AppConfig struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	LogLevel string         `mapstructure:"log_level" yaml:"log_level"`
}

// AnalysisConfig mirrors embedding.Config for file-based configuration
type AnalysisConfig struct {
	FrameSize      int     `mapstructure:"frame_size" yaml:"frame_size"`
	HopSize        int     `mapstructure:"hop_size" yaml:"hop_size"`
	NumMFCC        int     `mapstructure:"num_mfcc" yaml:"num_mfcc"`
	NumMelFilters  int     `mapstructure:"num_mel_filters" yaml:"num_mel_filters"`
	SmoothingAlpha float64 `mapstructure:"smoothing_alpha" yaml:"smoothing_alpha"`
	SilenceRatio   float64 `mapstructure:"silence_ratio" yaml:"silence_ratio"`
	SilenceGapSec  float64 `mapstructure:"silence_gap_sec" yaml:"silence_gap_sec"`
	MinPhraseSec   float64 `mapstructure:"min_phrase_sec" yaml:"min_phrase_sec"`
	PCASampleLimit int     `mapstructure:"pca_sample_limit" yaml:"pca_sample_limit"`
	VisualHalfExt  float64 `mapstructure:"visual_half_ext" yaml:"visual_half_ext"`
	GraphNeighbors int     `mapstructure:"graph_neighbors" yaml:"graph_neighbors"`
	GraphMaxPoints int     `mapstructure:"graph_max_points" yaml:"graph_max_points"`
}

// OutputConfig selects the output form and formatting
type OutputConfig struct {
	Form   string `mapstructure:"form" yaml:"form"` // "points" or "graph"
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Default returns the built-in configuration
func Default() *AppConfig {
	lib := embedding.DefaultConfig()
	return &AppConfig{
		Analysis: AnalysisConfig{
			FrameSize:      lib.FrameSize,
			HopSize:        lib.HopSize,
			NumMFCC:        lib.NumMFCC,
			NumMelFilters:  lib.NumMelFilters,
			SmoothingAlpha: lib.SmoothingAlpha,
			SilenceRatio:   lib.SilenceRatio,
			SilenceGapSec:  lib.SilenceGapSec,
			MinPhraseSec:   lib.MinPhraseSec,
			PCASampleLimit: lib.PCASampleLimit,
			VisualHalfExt:  lib.VisualHalfExt,
			GraphNeighbors: lib.GraphNeighbors,
			GraphMaxPoints: lib.GraphMaxPoints,
		},
		Output: OutputConfig{
			Form: "graph",
		},
		LogLevel: "info",
	}
}

// Load reads the config file (optional) over the defaults
func Load(configFile string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("analysis.frame_size", def.Analysis.FrameSize)
	v.SetDefault("analysis.hop_size", def.Analysis.HopSize)
	v.SetDefault("analysis.num_mfcc", def.Analysis.NumMFCC)
	v.SetDefault("analysis.num_mel_filters", def.Analysis.NumMelFilters)
	v.SetDefault("analysis.smoothing_alpha", def.Analysis.SmoothingAlpha)
	v.SetDefault("analysis.silence_ratio", def.Analysis.SilenceRatio)
	v.SetDefault("analysis.silence_gap_sec", def.Analysis.SilenceGapSec)
	v.SetDefault("analysis.min_phrase_sec", def.Analysis.MinPhraseSec)
	v.SetDefault("analysis.pca_sample_limit", def.Analysis.PCASampleLimit)
	v.SetDefault("analysis.visual_half_ext", def.Analysis.VisualHalfExt)
	v.SetDefault("analysis.graph_neighbors", def.Analysis.GraphNeighbors)
	v.SetDefault("analysis.graph_max_points", def.Analysis.GraphMaxPoints)
	v.SetDefault("output.form", def.Output.Form)
	v.SetDefault("output.pretty", def.Output.Pretty)
	v.SetDefault("log_level", def.LogLevel)
}

// EmbeddingConfig converts the file-based analysis section into the
// library's configuration, leaving unexposed parameters at their defaults.
func (c *AppConfig) EmbeddingConfig() embedding.Config {
	lib := embedding.DefaultConfig()

	a := c.Analysis
	if a.FrameSize > 0 {
		lib.FrameSize = a.FrameSize
	}
	if a.HopSize > 0 {
		lib.HopSize = a.HopSize
	}
	if a.NumMFCC > 0 {
		lib.NumMFCC = a.NumMFCC
	}
	if a.NumMelFilters > 0 {
		lib.NumMelFilters = a.NumMelFilters
	}
	if a.SmoothingAlpha > 0 {
		lib.SmoothingAlpha = a.SmoothingAlpha
	}
	if a.SilenceRatio > 0 {
		lib.SilenceRatio = a.SilenceRatio
	}
	if a.SilenceGapSec > 0 {
		lib.SilenceGapSec = a.SilenceGapSec
	}
	if a.MinPhraseSec > 0 {
		lib.MinPhraseSec = a.MinPhraseSec
	}
	if a.PCASampleLimit > 0 {
		lib.PCASampleLimit = a.PCASampleLimit
	}
	if a.VisualHalfExt > 0 {
		lib.VisualHalfExt = a.VisualHalfExt
	}
	if a.GraphNeighbors > 0 {
		lib.GraphNeighbors = a.GraphNeighbors
	}
	if a.GraphMaxPoints > 0 {
		lib.GraphMaxPoints = a.GraphMaxPoints
	}

	return lib
}

// WriteDefault writes the default configuration as YAML to path
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
