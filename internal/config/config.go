package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dshills/sketchrun/internal/logging"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "SKETCHRUN_"

// Config is the sketch configuration.
type Config struct {
	Width        int     `toml:"width" yaml:"width"`
	Height       int     `toml:"height" yaml:"height"`
	FullScreen   bool    `toml:"fullscreen" yaml:"fullscreen"`
	Smooth       int     `toml:"smooth" yaml:"smooth"`
	PixelDensity float64 `toml:"pixel_density" yaml:"pixel_density"`

	FrameRate      float64 `toml:"frame_rate" yaml:"frame_rate"`
	KeyRepeat      bool    `toml:"key_repeat" yaml:"key_repeat"`
	CtrlClickRight bool    `toml:"ctrl_click_right" yaml:"ctrl_click_right"`

	LogLevel  string `toml:"log_level" yaml:"log_level"`
	PluginDir string `toml:"plugin_dir" yaml:"plugin_dir"`
}

// Default returns the built-in configuration. A zero Width and Height mean
// "use the whole terminal".
func Default() Config {
	return Config{
		Smooth:         2,
		PixelDensity:   1,
		FrameRate:      60,
		CtrlClickRight: runtime.GOOS == "darwin",
		LogLevel:       "info",
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Width < 0:
		return &ValidationError{Key: "width", Message: "must not be negative", Value: c.Width}
	case c.Height < 0:
		return &ValidationError{Key: "height", Message: "must not be negative", Value: c.Height}
	case (c.Width == 0) != (c.Height == 0):
		return &ValidationError{Key: "width", Message: "width and height must both be set or both be 0", Value: c.Width}
	case c.Smooth < 0:
		return &ValidationError{Key: "smooth", Message: "must not be negative", Value: c.Smooth}
	case c.PixelDensity <= 0:
		return &ValidationError{Key: "pixel_density", Message: "must be positive", Value: c.PixelDensity}
	case c.FrameRate <= 0:
		return &ValidationError{Key: "frame_rate", Message: "must be positive", Value: c.FrameRate}
	case !logging.ValidLevel(c.LogLevel):
		return &ValidationError{Key: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel}
	}
	return nil
}

// envKeys maps setting keys to environment variable names.
var envKeys = []string{
	"width", "height", "fullscreen", "smooth", "pixel_density",
	"frame_rate", "key_repeat", "ctrl_click_right", "log_level", "plugin_dir",
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, key := range envKeys {
		val, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := c.set(key, val); err != nil {
			return &ParseError{Path: "$" + EnvName(key), Message: err.Error(), Err: err}
		}
	}
	return nil
}

// set assigns one setting from its string form.
func (c *Config) set(key, val string) error {
	var err error
	switch key {
	case "width":
		c.Width, err = strconv.Atoi(val)
	case "height":
		c.Height, err = strconv.Atoi(val)
	case "fullscreen":
		c.FullScreen, err = strconv.ParseBool(val)
	case "smooth":
		c.Smooth, err = strconv.Atoi(val)
	case "pixel_density":
		c.PixelDensity, err = strconv.ParseFloat(val, 64)
	case "frame_rate":
		c.FrameRate, err = strconv.ParseFloat(val, 64)
	case "key_repeat":
		c.KeyRepeat, err = strconv.ParseBool(val)
	case "ctrl_click_right":
		c.CtrlClickRight, err = strconv.ParseBool(val)
	case "log_level":
		c.LogLevel = val
	case "plugin_dir":
		c.PluginDir = val
	}
	return err
}

// Live reports which live-adjustable settings differ between c and next.
func (c Config) Live(next Config) (frameRate, keyRepeat bool) {
	return c.FrameRate != next.FrameRate, c.KeyRepeat != next.KeyRepeat
}
