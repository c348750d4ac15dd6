package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hubastard/gosu/engine/colors"
	"github.com/hubastard/gosu/engine/gfx"
)

// Config for the engine run.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`  // window size in points
	Height int    `toml:"height"` // window size in points

	// LogicalWidth and LogicalHeight are the drawing resolution, letterboxed
	// into the window. Zero means the window size.
	LogicalWidth  int `toml:"logical_width"`
	LogicalHeight int `toml:"logical_height"`

	VSync      bool         `toml:"vsync"`
	ClearColor colors.Color `toml:"clear_color"`
	TickRate   int          `toml:"tick_rate"` // fixed updates per second
	MaxSteps   int          `toml:"max_steps"` // update cap per frame
	LogLevel   string       `toml:"log_level"` // debug, info, warn, error; empty disables logging

	// ProfileEvents sizes the frame profiler's ring; 0 disables profiling.
	ProfileEvents int `toml:"profile_events"`

	Graphics gfx.Config `toml:"graphics"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "gosu",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
		TickRate:   60,
		MaxSteps:   10,
		Graphics:   gfx.Config{TextureSize: gfx.DefaultTextureSize},
	}
}

// LoadConfig reads a TOML file over DefaultConfig. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

var ErrInvalidConfig = errors.New("core: invalid config")

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.LogicalWidth < 0 || c.LogicalHeight < 0:
		return fmt.Errorf("%w: logical size %dx%d", ErrInvalidConfig, c.LogicalWidth, c.LogicalHeight)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// LogicalSize returns the drawing resolution.
func (c Config) LogicalSize() (int, int) {
	if c.LogicalWidth > 0 && c.LogicalHeight > 0 {
		return c.LogicalWidth, c.LogicalHeight
	}
	return c.Width, c.Height
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return lvl, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// logger builds the engine logger, or nil when logging is off.
func (c Config) logger() *slog.Logger {
	if c.LogLevel == "" {
		return nil
	}
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
