// Package config assembles the engine configuration from defaults, an
// optional YAML file and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/MeKo-Tech/stagehand/internal/click"
	"github.com/MeKo-Tech/stagehand/internal/match"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/placement"
	"github.com/MeKo-Tech/stagehand/internal/segment"
)

// Config is the complete engine configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	Decomposer segment.DecomposerConfig `mapstructure:"decomposer" yaml:"decomposer" json:"decomposer"`
	Filter     segment.FilterConfig     `mapstructure:"filter" yaml:"filter" json:"filter"`
	Matcher    match.Config             `mapstructure:"matcher" yaml:"matcher" json:"matcher"`
	Placement  placement.Config         `mapstructure:"placement" yaml:"placement" json:"placement"`
	Click      click.Config             `mapstructure:"click" yaml:"click" json:"click"`
	Oracle     oracle.ClientConfig      `mapstructure:"oracle" yaml:"oracle" json:"oracle"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Decomposer: segment.DefaultDecomposerConfig(),
		Filter:     segment.DefaultFilterConfig(),
		Matcher:    match.DefaultConfig(),
		Placement:  placement.DefaultConfig(),
		Click:      click.DefaultConfig(),
		Oracle:     oracle.DefaultClientConfig(),
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if err := c.Placement.Validate(); err != nil {
		return fmt.Errorf("placement: %w", err)
	}
	if c.Decomposer.MinArea < 0 {
		return fmt.Errorf("decomposer: min_area must be non-negative, got %d", c.Decomposer.MinArea)
	}
	if c.Matcher.MaxCenterDistance <= 0 {
		return fmt.Errorf("matcher: max_center_distance must be positive, got %v", c.Matcher.MaxCenterDistance)
	}
	if c.Click.PadPixels < 0 {
		return fmt.Errorf("click: pad_pixels must be non-negative, got %d", c.Click.PadPixels)
	}
	return nil
}

// SlogLevel maps the configured level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
