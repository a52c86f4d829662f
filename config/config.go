// Package config provides configuration loading and access for the mowing session.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all session configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Field      FieldConfig      `yaml:"field"`
	Agent      AgentConfig      `yaml:"agent"`
	Drive      DriveConfig      `yaml:"drive"`
	Compaction CompactionConfig `yaml:"compaction"`
	Coverage   CoverageConfig   `yaml:"coverage"`
	Obstacles  ObstaclesConfig  `yaml:"obstacles"`
	Camera     CameraConfig     `yaml:"camera"`
	Feedback   FeedbackConfig   `yaml:"feedback"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds simulation timing parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// FieldConfig holds the mowable field dimensions and raster resolution.
type FieldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Resolution float64 `yaml:"resolution"` // Raster pixels per field unit
}

// AgentConfig holds mower and cutting tool parameters.
type AgentConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // Field units per unit of move input
	ForwardOffset float64 `yaml:"forward_offset"` // Radians added to the reference angle to get forward
	ToolWidth     float64 `yaml:"tool_width"`     // Cut ellipse width (across the mower)
	ToolHeight    float64 `yaml:"tool_height"`    // Cut ellipse height (along the mower)
	BodyWidth     float64 `yaml:"body_width"`
	BodyHeight    float64 `yaml:"body_height"`
}

// DriveConfig holds tank-drive handle parameters.
type DriveConfig struct {
	Deadzone   float64 `yaml:"deadzone"`    // Handle magnitude below this = 0
	HandleRate float64 `yaml:"handle_rate"` // Handle units per second when a key is held
}

// CompactionConfig holds the pending-shape compaction policy.
type CompactionConfig struct {
	Threshold     int  `yaml:"threshold"`      // Compact once this many shapes are pending
	CompactOnIdle bool `yaml:"compact_on_idle"` // Compact any pending shapes when the mower stops
}

// CoverageConfig holds coverage sampling parameters.
type CoverageConfig struct {
	Downscale     float64 `yaml:"downscale"`      // Factor applied before whole-field sampling
	TotalInterval float64 `yaml:"total_interval"` // Seconds between whole-field coverage requests
	MaxInFlight   int     `yaml:"max_in_flight"`  // Concurrent whole-field samples allowed
}

// ObstaclesConfig holds obstacle placement parameters.
type ObstaclesConfig struct {
	Count        int     `yaml:"count"`
	MinSpacing   float64 `yaml:"min_spacing"`
	Size         float64 `yaml:"size"` // Margin kept from the field edge
	MinScale     float64 `yaml:"min_scale"`
	MaxScale     float64 `yaml:"max_scale"`
	BufferWidth  float64 `yaml:"buffer_width"`  // Pre-cut ellipse width at scale 1
	BufferHeight float64 `yaml:"buffer_height"` // Pre-cut ellipse height at scale 1
	MaxAttempts  int     `yaml:"max_attempts"`
}

// CameraConfig holds view parameters.
type CameraConfig struct {
	FollowZoom float64 `yaml:"follow_zoom"`
	Ease       float64 `yaml:"ease"`   // Fraction of remaining distance closed per second
	Margin     float64 `yaml:"margin"` // Overview padding in screen pixels
}

// FeedbackConfig holds audio/visual feedback parameters.
type FeedbackConfig struct {
	MinVolume float64 `yaml:"min_volume"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	TimerStep           float64 `yaml:"timer_step"` // Mowing timer resolution in seconds
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	RasterW   int     // Field.Width in raster pixels
	RasterH   int     // Field.Height in raster pixels
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("field size must be positive, got %vx%v", c.Field.Width, c.Field.Height)
	case c.Field.Resolution <= 0:
		return fmt.Errorf("field resolution must be positive, got %v", c.Field.Resolution)
	case c.Physics.DT <= 0:
		return fmt.Errorf("physics dt must be positive, got %v", c.Physics.DT)
	case c.Coverage.Downscale <= 0 || c.Coverage.Downscale > 1:
		return fmt.Errorf("coverage downscale must be in (0,1], got %v", c.Coverage.Downscale)
	case c.Compaction.Threshold < 1:
		return fmt.Errorf("compaction threshold must be at least 1, got %d", c.Compaction.Threshold)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.RasterW = int(c.Field.Width * c.Field.Resolution)
	c.Derived.RasterH = int(c.Field.Height * c.Field.Resolution)

	if c.Obstacles.MaxAttempts <= 0 {
		c.Obstacles.MaxAttempts = 100
	}
	if c.Coverage.MaxInFlight <= 0 {
		c.Coverage.MaxInFlight = 1
	}
	if c.Obstacles.MaxScale < c.Obstacles.MinScale {
		c.Obstacles.MaxScale = c.Obstacles.MinScale
	}
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
