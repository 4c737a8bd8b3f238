// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all renderer settings.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Lighting LightingConfig `yaml:"lighting"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RenderConfig holds viewport and projection settings.
type RenderConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
	FOV    float32 `yaml:"fov"` // vertical, degrees
}

// LightingConfig holds the sun and ambient settings.
type LightingConfig struct {
	SunLongitude float32 `yaml:"sun_longitude"` // degrees around Y
	SunLatitude  float32 `yaml:"sun_latitude"`  // degrees above the horizon
	Ambient      float32 `yaml:"ambient"`
	Diffuse      float32 `yaml:"diffuse"`
}

// OutputConfig holds frame capture settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Frames int    `yaml:"frames"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:  640,
			Height: 480,
			Near:   0.1,
			Far:    100,
			FOV:    60,
		},
		Lighting: LightingConfig{
			SunLongitude: 45,
			SunLatitude:  60,
			Ambient:      0.25,
			Diffuse:      0.75,
		},
		Output: OutputConfig{
			Dir:    "frames",
			Prefix: "frame",
			Frames: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the renderer cannot work with.
func (c *Config) Validate() error {
	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, r.Width, r.Height)
	case r.Near <= 0 || r.Far <= r.Near:
		return fmt.Errorf("%w: near %v far %v", ErrInvalid, r.Near, r.Far)
	case r.FOV <= 0 || r.FOV >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, r.FOV)
	case c.Lighting.Ambient < 0 || c.Lighting.Diffuse < 0:
		return fmt.Errorf("%w: negative light term", ErrInvalid)
	case c.Output.Frames < 0:
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Output.Frames)
	}
	return nil
}
