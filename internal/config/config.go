// Package config provides configuration loading and management for the
// region tree server. Configuration is read from a YAML file; missing files
// and missing keys fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
	"github.com/ironsheep/region-tree-mcp/internal/imaging"
)

// Config represents the server configuration loaded from YAML.
type Config struct {
	// Tree controls the component tree builder.
	Tree struct {
		// MaxLevel is the highest intensity level; images are quantised to
		// [0, MaxLevel].
		MaxLevel int `yaml:"maxLevel"`

		// SortByTopRow orders the regions of each level by their top row.
		SortByTopRow bool `yaml:"sortByTopRow"`

		// Order is the sweep direction: "descending" or "ascending".
		Order string `yaml:"order"`

		// KeepUnchanged emits a region for a candidate at every level, even
		// when it did not grow.
		KeepUnchanged bool `yaml:"keepUnchanged"`
	} `yaml:"tree"`

	// Preprocess controls image to raster conversion.
	Preprocess struct {
		// BlurRadius is the Gaussian blur radius; 0 disables blurring.
		BlurRadius float64 `yaml:"blurRadius"`

		// Invert flips luminance so dark structures are extracted first.
		Invert bool `yaml:"invert"`
	} `yaml:"preprocess"`

	// Render controls label map output.
	Render struct {
		Format     string  `yaml:"format"`
		Saturation float64 `yaml:"saturation"`
		Lightness  float64 `yaml:"lightness"`
	} `yaml:"render"`

	// Server controls runtime behaviour.
	Server struct {
		// LogLevel is "info" or "debug".
		LogLevel string `yaml:"logLevel"`

		// CacheTrees keeps built trees in memory between tool calls.
		CacheTrees bool `yaml:"cacheTrees"`
	} `yaml:"server"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Tree.MaxLevel = 255
	cfg.Tree.SortByTopRow = true
	cfg.Tree.Order = componenttree.Descending.String()
	cfg.Tree.KeepUnchanged = false

	cfg.Preprocess.BlurRadius = 0
	cfg.Preprocess.Invert = false

	label := imaging.DefaultLabelOptions()
	cfg.Render.Format = label.Format
	cfg.Render.Saturation = label.Saturation
	cfg.Render.Lightness = label.Lightness

	cfg.Server.LogLevel = "info"
	cfg.Server.CacheTrees = true

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file, creating parent
// directories as needed.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field for a usable value.
func (c *Config) Validate() error {
	if c.Tree.MaxLevel < 1 || c.Tree.MaxLevel > componenttree.MaxSupportedLevel {
		return fmt.Errorf("tree.maxLevel %d outside [1, %d]", c.Tree.MaxLevel, componenttree.MaxSupportedLevel)
	}
	if _, err := componenttree.ParseOrder(c.Tree.Order); err != nil {
		return fmt.Errorf("tree.order: %w", err)
	}
	if c.Preprocess.BlurRadius < 0 {
		return fmt.Errorf("preprocess.blurRadius %g must not be negative", c.Preprocess.BlurRadius)
	}
	if _, err := imaging.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("render.format: %w", err)
	}
	if c.Render.Saturation < 0 || c.Render.Saturation > 1 {
		return fmt.Errorf("render.saturation %g outside [0, 1]", c.Render.Saturation)
	}
	if c.Render.Lightness < 0 || c.Render.Lightness > 1 {
		return fmt.Errorf("render.lightness %g outside [0, 1]", c.Render.Lightness)
	}
	switch strings.ToLower(c.Server.LogLevel) {
	case "", "info", "debug":
	default:
		return fmt.Errorf("server.logLevel %q: expected info or debug", c.Server.LogLevel)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Server.LogLevel, "debug")
}

// TreeOptions returns builder options for the configured tree settings.
// The config must have passed Validate.
func (c *Config) TreeOptions() componenttree.Options {
	order, _ := componenttree.ParseOrder(c.Tree.Order)
	return componenttree.Options{
		MaxLevel:      c.Tree.MaxLevel,
		Order:         order,
		SortByTopRow:  c.Tree.SortByTopRow,
		KeepUnchanged: c.Tree.KeepUnchanged,
	}
}

// RasterOptions returns the image conversion settings.
func (c *Config) RasterOptions() imaging.RasterOptions {
	return imaging.RasterOptions{
		MaxLevel:   c.Tree.MaxLevel,
		Invert:     c.Preprocess.Invert,
		BlurRadius: c.Preprocess.BlurRadius,
	}
}

// LabelOptions returns the label map rendering settings.
func (c *Config) LabelOptions() imaging.LabelOptions {
	return imaging.LabelOptions{
		Format:     c.Render.Format,
		Saturation: c.Render.Saturation,
		Lightness:  c.Render.Lightness,
		Depth:      -1,
	}
}
