// Package config provides configuration loading and management for volshade.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Data parameters
	Data struct {
		// Type is the voxel data type the transfer function is defined
		// over: uint8, int8, uint16, int16, uint32, int32, uint64 or
		// float32
		Type string `yaml:"type"`

		// LookupTableSize is the number of RGBA entries rasterized per
		// update. 0 picks the data type's default size.
		LookupTableSize int `yaml:"lookupTableSize"`
	} `yaml:"data"`

	// Panel interaction parameters
	Panel struct {
		// MinGrabFraction is the smallest pointer capture distance as a
		// fraction of the panel width
		MinGrabFraction float64 `yaml:"minGrabFraction"`

		// BorderSnapFraction is the band near the panel edges that snaps
		// positions onto the exact border
		BorderSnapFraction float64 `yaml:"borderSnapFraction"`

		// WheelZoomDivisor scales wheel deltas into zoom exponents
		WheelZoomDivisor float64 `yaml:"wheelZoomDivisor"`

		// DefaultColor is the color newly placed control points receive,
		// as "#rrggbb" hex or an SVG 1.1 color name
		DefaultColor string `yaml:"defaultColor"`
	} `yaml:"panel"`

	// Histogram parameters
	Histogram struct {
		// Bins is the number of histogram bins across the window
		Bins int `yaml:"bins"`

		// TailFraction is the probability mass trimmed from each side
		// when suggesting a window from the data
		TailFraction float64 `yaml:"tailFraction"`
	} `yaml:"histogram"`

	// Preview rendering parameters
	Preview struct {
		// Width and Height are the preview image dimensions in pixels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`

		// StripHeight is the height of the colormap strip at the bottom
		StripHeight int `yaml:"stripHeight"`

		// MarkerRadius is the control point marker half-size in pixels
		MarkerRadius int `yaml:"markerRadius"`

		// Background is the plot background color, hex or SVG name
		Background string `yaml:"background"`
	} `yaml:"preview"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default data parameters
	cfg.Data.Type = "uint8"
	cfg.Data.LookupTableSize = 0 // Pick per data type

	// Set default panel parameters
	cfg.Panel.MinGrabFraction = 0.05
	cfg.Panel.BorderSnapFraction = 0.02
	cfg.Panel.WheelZoomDivisor = 480
	cfg.Panel.DefaultColor = "#ffffff"

	// Set default histogram parameters
	cfg.Histogram.Bins = 256
	cfg.Histogram.TailFraction = 0.05

	// Set default preview parameters
	cfg.Preview.Width = 512
	cfg.Preview.Height = 128
	cfg.Preview.StripHeight = 24
	cfg.Preview.MarkerRadius = 3
	cfg.Preview.Background = "#202020"

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// ParseColor resolves a configured color: "#rrggbb" hex first, then the
// SVG 1.1 color names ("red", "steelblue", ...).
func ParseColor(s string) (colorful.Color, error) {
	if strings.HasPrefix(s, "#") {
		return colorful.Hex(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}, nil
	}
	return colorful.Color{}, fmt.Errorf("unknown color %q", s)
}
