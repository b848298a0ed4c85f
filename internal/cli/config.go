package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/skommel/mindweave/pkg/pipeline"
)

// Config mirrors pipeline.Options for the optional mindweave.toml file.
// Pointer fields distinguish "not set" from zero values so explicit CLI
// flags and config entries can be layered cleanly.
type Config struct {
	Language           *string  `toml:"language"`
	MaxNodes           *int     `toml:"max_nodes"`
	MaxDepth           *int     `toml:"max_depth"`
	IncludeExamples    *bool    `toml:"include_examples"`
	IncludeDefinitions *bool    `toml:"include_definitions"`
	Complexity         *string  `toml:"complexity"`
	Strategy           *string  `toml:"strategy"`
	Width              *float64 `toml:"width"`
	Height             *float64 `toml:"height"`
	ColorScheme        *string  `toml:"color_scheme"`
	FocusAreas         []string `toml:"focus_areas"`
	Formats            []string `toml:"formats"`
}

// loadConfig parses a TOML options file. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// apply copies set config values into opts. Fields the caller already set
// (explicit flags) are left untouched.
func (cfg Config) apply(opts *pipeline.Options) {
	if cfg.Language != nil && opts.Language == "" {
		opts.Language = *cfg.Language
	}
	if cfg.MaxNodes != nil && opts.MaxNodes == 0 {
		opts.MaxNodes = *cfg.MaxNodes
	}
	if cfg.MaxDepth != nil && opts.MaxDepth == 0 {
		opts.MaxDepth = *cfg.MaxDepth
	}
	if cfg.IncludeExamples != nil && !opts.IncludeExamples {
		opts.IncludeExamples = *cfg.IncludeExamples
	}
	if cfg.IncludeDefinitions != nil && !opts.IncludeDefinitions {
		opts.IncludeDefinitions = *cfg.IncludeDefinitions
	}
	if cfg.Complexity != nil && opts.Complexity == "" {
		opts.Complexity = *cfg.Complexity
	}
	if cfg.Strategy != nil && opts.Strategy == "" {
		opts.Strategy = *cfg.Strategy
	}
	if cfg.Width != nil && opts.Width == 0 {
		opts.Width = *cfg.Width
	}
	if cfg.Height != nil && opts.Height == 0 {
		opts.Height = *cfg.Height
	}
	if cfg.ColorScheme != nil && opts.ColorScheme == "" {
		opts.ColorScheme = *cfg.ColorScheme
	}
	if len(cfg.FocusAreas) > 0 && len(opts.FocusAreas) == 0 {
		opts.FocusAreas = cfg.FocusAreas
	}
	if len(cfg.Formats) > 0 && len(opts.Formats) == 0 {
		opts.Formats = cfg.Formats
	}
}

// applyConfig loads the config file when path is non-empty and layers it
// under the options already populated from flags.
func applyConfig(path string, opts *pipeline.Options) error {
	if path == "" {
		return nil
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	cfg.apply(opts)
	return nil
}
