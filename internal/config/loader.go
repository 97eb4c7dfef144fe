package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "stagehand"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "STAGEHAND"
)

// Loader handles loading configuration from files and environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader with its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads configuration from an optional file, environment variables and
// defaults. An absent config file is not an error.
func (l *Loader) Load() (*Config, error) {
	return l.LoadFrom("")
}

// LoadFrom is like Load but reads the given config file when path is
// non-empty.
func (l *Loader) LoadFrom(path string) (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME/.config/stagehand")
	}

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log_level", def.LogLevel)

	l.v.SetDefault("decomposer.min_channel_sum", def.Decomposer.MinChannelSum)
	l.v.SetDefault("decomposer.max_channel_sum", def.Decomposer.MaxChannelSum)
	l.v.SetDefault("decomposer.min_area", def.Decomposer.MinArea)

	l.v.SetDefault("filter.min_area_percent", def.Filter.MinAreaPercent)
	l.v.SetDefault("filter.stability_threshold", def.Filter.StabilityThreshold)
	l.v.SetDefault("filter.max_area_fraction", def.Filter.MaxAreaFraction)
	l.v.SetDefault("filter.min_vertical_center", def.Filter.MinVerticalCenter)
	l.v.SetDefault("filter.trim_aspect", def.Filter.TrimAspect)
	l.v.SetDefault("filter.trim_max_height", def.Filter.TrimMaxHeight)
	l.v.SetDefault("filter.edge_aspect", def.Filter.EdgeAspect)
	l.v.SetDefault("filter.edge_margin", def.Filter.EdgeMargin)

	l.v.SetDefault("matcher.max_center_distance", def.Matcher.MaxCenterDistance)

	l.v.SetDefault("placement.canvas_width", def.Placement.CanvasWidth)
	l.v.SetDefault("placement.canvas_height", def.Placement.CanvasHeight)
	l.v.SetDefault("placement.room_width_inches", def.Placement.RoomWidthInches)
	l.v.SetDefault("placement.replace_pad_ratio", def.Placement.ReplacePadRatio)
	l.v.SetDefault("placement.dimension_pad_ratio", def.Placement.DimensionPadRatio)
	l.v.SetDefault("placement.min_footprint_ratio", def.Placement.MinFootprintRatio)
	l.v.SetDefault("placement.max_footprint_ratio", def.Placement.MaxFootprintRatio)
	l.v.SetDefault("placement.vertical_compression", def.Placement.VerticalCompression)
	l.v.SetDefault("placement.anchor_x", def.Placement.AnchorX)
	l.v.SetDefault("placement.anchor_y", def.Placement.AnchorY)

	l.v.SetDefault("click.pad_pixels", def.Click.PadPixels)
	l.v.SetDefault("click.smooth_radius", def.Click.SmoothRadius)

	l.v.SetDefault("oracle.base_url", def.Oracle.BaseURL)
	l.v.SetDefault("oracle.api_key", def.Oracle.APIKey)
	l.v.SetDefault("oracle.timeout", def.Oracle.Timeout)
}
