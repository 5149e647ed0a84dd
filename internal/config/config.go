// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	DragDrop() DragDropConfig
	Viewport() ViewportConfig
	Frame() FrameConfig
	TUI() TUIConfig
	Hooks() HooksConfig

	// Setters for values that come from CLI flags.
	SetHooksScript(path string)
	SetViewport(width, height float64)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	DragDropCfg DragDropConfig `mapstructure:"dragdrop" yaml:"dragdrop"`
	ViewportCfg ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	FrameCfg    FrameConfig    `mapstructure:"frame" yaml:"frame"`
	TUICfg      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	HooksCfg    HooksConfig    `mapstructure:"hooks" yaml:"hooks"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) DragDrop() DragDropConfig { return c.DragDropCfg }
func (c *Config) Viewport() ViewportConfig { return c.ViewportCfg }
func (c *Config) Frame() FrameConfig       { return c.FrameCfg }
func (c *Config) TUI() TUIConfig           { return c.TUICfg }
func (c *Config) Hooks() HooksConfig       { return c.HooksCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetHooksScript(path string) { c.HooksCfg.Script = path }
func (c *Config) SetViewport(width, height float64) {
	c.ViewportCfg.Width = width
	c.ViewportCfg.Height = height
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DragDropConfig configures the drag controller.
type DragDropConfig struct {
	// ScrollZone is the edge distance in pixels that triggers auto-scroll.
	ScrollZone float64 `mapstructure:"scroll_zone" yaml:"scroll_zone"`
	// ScrollSpeed is the number of pixels scrolled per frame.
	ScrollSpeed   float64 `mapstructure:"scroll_speed" yaml:"scroll_speed"`
	DraggingClass string  `mapstructure:"dragging_class" yaml:"dragging_class"`
	CloneClass    string  `mapstructure:"clone_class" yaml:"clone_class"`
}

// ViewportConfig is the simulated window size in CSS pixels.
type ViewportConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// FrameConfig sets the animation frame rate.
type FrameConfig struct {
	FPS int `mapstructure:"fps" yaml:"fps"`
}

// TUIConfig maps terminal cells onto page pixels.
type TUIConfig struct {
	CellWidth  float64 `mapstructure:"cell_width" yaml:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height" yaml:"cell_height"`
}

// HooksConfig configures JavaScript lifecycle hooks.
type HooksConfig struct {
	// Script is an optional hook script loaded for every session.
	Script string `mapstructure:"script" yaml:"script"`
	// Timeout bounds a single hook call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "dragsort")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Drag and Drop --
	v.SetDefault("dragdrop.scroll_zone", 100.0)
	v.SetDefault("dragdrop.scroll_speed", 5.0)
	v.SetDefault("dragdrop.dragging_class", "")
	v.SetDefault("dragdrop.clone_class", "")

	// -- Viewport --
	v.SetDefault("viewport.width", 800.0)
	v.SetDefault("viewport.height", 600.0)

	// -- Frames --
	v.SetDefault("frame.fps", 60)

	// -- TUI --
	v.SetDefault("tui.cell_width", 8.0)
	v.SetDefault("tui.cell_height", 16.0)

	// -- Hooks --
	v.SetDefault("hooks.script", "")
	v.SetDefault("hooks.timeout", "50ms")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.DragDropCfg.Validate(); err != nil {
		return fmt.Errorf("dragdrop configuration invalid: %w", err)
	}
	if c.ViewportCfg.Width <= 0 || c.ViewportCfg.Height <= 0 {
		return fmt.Errorf("viewport.width and viewport.height must be positive")
	}
	if c.FrameCfg.FPS <= 0 {
		return fmt.Errorf("frame.fps must be a positive integer")
	}
	if c.TUICfg.CellWidth <= 0 || c.TUICfg.CellHeight <= 0 {
		return fmt.Errorf("tui.cell_width and tui.cell_height must be positive")
	}
	if c.HooksCfg.Timeout < 0 {
		return fmt.Errorf("hooks.timeout must not be negative")
	}
	return nil
}

// Validate checks the drag controller settings.
func (d *DragDropConfig) Validate() error {
	if d.ScrollZone < 0 {
		return fmt.Errorf("scroll_zone must not be negative")
	}
	if d.ScrollSpeed < 0 {
		return fmt.Errorf("scroll_speed must not be negative")
	}
	if d.ScrollZone > 0 && d.ScrollSpeed == 0 {
		return fmt.Errorf("scroll_speed must be positive when scroll_zone is set")
	}
	return nil
}
