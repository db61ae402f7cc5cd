// Package config loads prism's optional config.toml from the data
// directory, falling back to built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stefanpenner/prism/pkg/tracker"
)

// Default values.
const (
	DefaultSlugMaxLength = 15
	DefaultSlugWordLimit = 3
	DefaultLogLevel      = "info"
)

// Config holds the tunable settings for prism.
type Config struct {
	SlugMaxLength   int      `toml:"slug_max_length"`
	SlugWordLimit   int      `toml:"slug_word_limit"`
	SlugFillerWords []string `toml:"slug_filler_words"`
	DateFormats     []string `toml:"date_formats"`
	LogLevel        string   `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SlugMaxLength:   DefaultSlugMaxLength,
		SlugWordLimit:   DefaultSlugWordLimit,
		SlugFillerWords: tracker.DefaultSlugRules().FillerWords,
		DateFormats:     tracker.DateLayouts,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads config.toml from the data directory. A missing file means
// defaults; a present file only overrides the fields it sets.
func Load(dataDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dataDir, "config.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.SlugMaxLength < 1 {
		cfg.SlugMaxLength = DefaultSlugMaxLength
	}
	if cfg.SlugWordLimit < 1 {
		cfg.SlugWordLimit = DefaultSlugWordLimit
	}
	return cfg, nil
}

// SlugRules converts the config into the tracker's slug settings.
func (c *Config) SlugRules() tracker.SlugRules {
	return tracker.SlugRules{
		MaxLength:   c.SlugMaxLength,
		WordLimit:   c.SlugWordLimit,
		FillerWords: c.SlugFillerWords,
	}
}
