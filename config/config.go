// Package config provides configuration loading and access for the displacement field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfiguration is returned when a setting cannot be coerced into a
// usable value (non-positive or non-numeric grid size).
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Grid size bounds.
const (
	MinGridSize = 2
	MaxGridSize = 256
)

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Clock     ClockConfig     `yaml:"clock"`
	Emitters  EmittersConfig  `yaml:"emitters"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Render    RenderConfig    `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the tunable field parameters exposed to the host surface.
type FieldConfig struct {
	GridSize       int     `yaml:"grid_size"`       // Cells per side, [2,256]
	Channels       int     `yaml:"channels"`        // Floats per cell in the exported buffer (2 or 3)
	MouseInfluence float64 `yaml:"mouse_influence"` // Pointer push radius as a fraction of the grid, [0,1]
	Strength       float64 `yaml:"strength"`        // Pointer push multiplier, [0,2]
	Relaxation     float64 `yaml:"relaxation"`      // Per-step decay factor, [0.7,0.999]
}

// ClockConfig holds fixed-step timing.
type ClockConfig struct {
	DT           float64 `yaml:"dt"`             // Logical seconds per step
	StepsPerTick int     `yaml:"steps_per_tick"` // Steps executed per host callback
}

// PulseConfig holds pulse trigger defaults.
type PulseConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Lifetime float64 `yaml:"lifetime"`
	Decay    float64 `yaml:"decay"`
}

// RippleConfig holds ripple trigger defaults.
type RippleConfig struct {
	Radius     float64 `yaml:"radius"`
	Amplitude  float64 `yaml:"amplitude"`
	Wavelength float64 `yaml:"wavelength"`
	Speed      float64 `yaml:"speed"`
	Lifetime   float64 `yaml:"lifetime"`
	Decay      float64 `yaml:"decay"`
}

// SliceConfig holds slice trigger defaults.
type SliceConfig struct {
	Height   float64 `yaml:"height"`
	Offset   float64 `yaml:"offset"`
	Duration float64 `yaml:"duration"` // Lifetime in seconds
	Decay    float64 `yaml:"decay"`
}

// SwirlConfig holds swirl trigger defaults.
type SwirlConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Lifetime float64 `yaml:"lifetime"`
	Decay    float64 `yaml:"decay"`
}

// BlastConfig holds the composite click preset.
type BlastConfig struct {
	PulseRadius      float64 `yaml:"pulse_radius"`
	PulseStrength    float64 `yaml:"pulse_strength"`
	RippleRadius     float64 `yaml:"ripple_radius"`
	RippleAmplitude  float64 `yaml:"ripple_amplitude"`
	RippleWavelength float64 `yaml:"ripple_wavelength"`
	RippleSpeed      float64 `yaml:"ripple_speed"`
	SliceHeight      float64 `yaml:"slice_height"`
	SliceOffset      float64 `yaml:"slice_offset"`
	SliceDuration    float64 `yaml:"slice_duration"`
	SwirlRadius      float64 `yaml:"swirl_radius"`
	SwirlStrength    float64 `yaml:"swirl_strength"`
}

// EmittersConfig groups the trigger defaults.
type EmittersConfig struct {
	Pulse  PulseConfig  `yaml:"pulse"`
	Ripple RippleConfig `yaml:"ripple"`
	Slice  SliceConfig  `yaml:"slice"`
	Swirl  SwirlConfig  `yaml:"swirl"`
	Blast  BlastConfig  `yaml:"blast"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per stats row
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
}

// RenderConfig holds parameters for the raylib host.
type RenderConfig struct {
	EncodeScale  float64 `yaml:"encode_scale"`  // Displacement units mapped to one 8-bit step
	Shader       string  `yaml:"shader"`        // Fragment shader path
	Image        string  `yaml:"image"`         // Image to distort (empty = generated checkerboard)
	WarpStrength float64 `yaml:"warp_strength"` // UV offset per displacement unit in the shader
	ShowPanel    bool    `yaml:"show_panel"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32             float32 // Clock.DT as float32
	MouseInfluence32 float32
	Strength32       float32
	Relaxation32     float32
	StatsWindowTicks int // Telemetry.StatsWindow / Clock.DT
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

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize clamps every tunable into its supported range and recomputes
// derived values. A non-positive or NaN grid size is the only rejected input.
func (c *Config) Normalize() error {
	if c.Field.GridSize <= 0 {
		return fmt.Errorf("%w: grid_size must be positive, got %d", ErrInvalidConfiguration, c.Field.GridSize)
	}
	c.Field.GridSize = ClampGridSize(c.Field.GridSize)
	if c.Field.Channels != 2 {
		c.Field.Channels = 3
	}
	c.Field.MouseInfluence = clampRange(c.Field.MouseInfluence, 0, 1, 0.25)
	c.Field.Strength = clampRange(c.Field.Strength, 0, 2, 1)
	c.Field.Relaxation = clampRange(c.Field.Relaxation, 0.7, 0.999, 0.9)

	if c.Clock.DT <= 0 || math.IsNaN(c.Clock.DT) {
		c.Clock.DT = 1.0 / 60.0
	}
	if c.Clock.StepsPerTick < 1 {
		c.Clock.StepsPerTick = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}

	c.computeDerived()
	return nil
}

// ClampGridSize coerces a positive size into [MinGridSize, MaxGridSize].
func ClampGridSize(n int) int {
	if n < MinGridSize {
		return MinGridSize
	}
	if n > MaxGridSize {
		return MaxGridSize
	}
	return n
}

// clampRange clamps v into [lo, hi]; NaN falls back to def.
func clampRange(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Max(lo, math.Min(hi, v))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Clock.DT)
	c.Derived.MouseInfluence32 = float32(c.Field.MouseInfluence)
	c.Derived.Strength32 = float32(c.Field.Strength)
	c.Derived.Relaxation32 = float32(c.Field.Relaxation)

	ticks := int(math.Round(c.Telemetry.StatsWindow / c.Clock.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks
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
