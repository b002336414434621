// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all field configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Style     StyleConfig     `yaml:"style"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// FieldConfig holds particle population and simulation parameters.
type FieldConfig struct {
	MaxParticles       int     `yaml:"max_particles"`       // Hard cap on particle count
	DensityDivisor     float64 `yaml:"density_divisor"`     // Surface pixels of width per particle
	MaxSpeed           float64 `yaml:"max_speed"`           // Velocity components drawn from [-max, max)
	MinSize            float64 `yaml:"min_size"`            // Dot radius lower bound (px)
	MaxSize            float64 `yaml:"max_size"`            // Dot radius upper bound (px)
	MinOpacity         float64 `yaml:"min_opacity"`         // Dot alpha lower bound
	MaxOpacity         float64 `yaml:"max_opacity"`         // Dot alpha upper bound
	ProximityThreshold float64 `yaml:"proximity_threshold"` // Max distance for a connection (px)
}

// StyleConfig holds the look of a frame.
type StyleConfig struct {
	Background           string  `yaml:"background"`             // Trail-fade overlay colour (hex)
	Accent               string  `yaml:"accent"`                 // Line, dot and glow colour (hex)
	TrailAlpha           float64 `yaml:"trail_alpha"`            // Overlay alpha per frame
	ConnectionMaxOpacity float64 `yaml:"connection_max_opacity"` // Alpha of a zero-length connection
	LineWidth            float64 `yaml:"line_width"`             // Connection stroke width (px)
	GlowMultiplier       float64 `yaml:"glow_multiplier"`        // Glow radius = size * this
	GlowOpacity          float64 `yaml:"glow_opacity"`           // Glow inner alpha = opacity * this
}

// TerminalConfig holds terminal rendering parameters.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`  // Virtual pixels per terminal column
	CellHeight int `yaml:"cell_height"` // Virtual pixels per terminal row (two half-blocks)
	TargetFPS  int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // Frames averaged by the perf collector
	LogInterval int `yaml:"log_interval"` // Frames between perf log lines (0 = never)
}

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Background RGB
	Accent     RGB
	ScreenW    float64
	ScreenH    float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh validates the config and recomputes derived values.
// Call after mutating fields in place.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.computeDerived()
}

// Validate reports the first parameter that would break the field.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.MaxParticles < 0:
		return errors.New("field.max_particles must not be negative")
	case f.DensityDivisor <= 0:
		return errors.New("field.density_divisor must be positive")
	case f.ProximityThreshold <= 0:
		return errors.New("field.proximity_threshold must be positive")
	case f.MaxSpeed < 0:
		return errors.New("field.max_speed must not be negative")
	case f.MinSize < 0 || f.MaxSize < f.MinSize:
		return fmt.Errorf("field size range [%g, %g) is invalid", f.MinSize, f.MaxSize)
	case f.MinOpacity <= 0 || f.MaxOpacity > 1 || f.MaxOpacity < f.MinOpacity:
		return fmt.Errorf("field opacity range [%g, %g) must lie within (0, 1]", f.MinOpacity, f.MaxOpacity)
	}

	s := c.Style
	switch {
	case s.TrailAlpha < 0 || s.TrailAlpha > 1:
		return errors.New("style.trail_alpha must lie within [0, 1]")
	case s.ConnectionMaxOpacity < 0 || s.ConnectionMaxOpacity > 1:
		return errors.New("style.connection_max_opacity must lie within [0, 1]")
	case s.LineWidth <= 0:
		return errors.New("style.line_width must be positive")
	case s.GlowMultiplier < 0:
		return errors.New("style.glow_multiplier must not be negative")
	}

	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return errors.New("terminal cell dimensions must be positive")
	}
	return nil
}

func (c *Config) computeDerived() error {
	bg, err := parseHex(c.Style.Background)
	if err != nil {
		return fmt.Errorf("style.background: %w", err)
	}
	accent, err := parseHex(c.Style.Accent)
	if err != nil {
		return fmt.Errorf("style.accent: %w", err)
	}
	c.Derived.Background = bg
	c.Derived.Accent = accent
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	return nil
}

func parseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
