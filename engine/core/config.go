package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the engine startup parameters. The zero value is not
// usable; start from DefaultConfig and override what you need, or load
// overrides from a YAML file with LoadConfig.
type Config struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// DefaultConfig returns the fixed startup parameters: a 1280x720 vsynced
// window cleared to black.
func DefaultConfig() Config {
	return Config{
		Title:      "ember",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}

// fileConfig mirrors Config with pointer fields so that absent YAML keys
// are distinguishable from zero values when merging.
type fileConfig struct {
	Title      *string     `yaml:"title"`
	Width      *int        `yaml:"width"`
	Height     *int        `yaml:"height"`
	VSync      *bool       `yaml:"vsync"`
	ClearColor *[4]float32 `yaml:"clear_color"`
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig.
// Only keys present in the file override the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	if fc.Title != nil {
		cfg.Title = *fc.Title
	}
	if fc.Width != nil {
		cfg.Width = *fc.Width
	}
	if fc.Height != nil {
		cfg.Height = *fc.Height
	}
	if fc.VSync != nil {
		cfg.VSync = *fc.VSync
	}
	if fc.ClearColor != nil {
		cfg.ClearColor = *fc.ClearColor
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config %q: window size %dx%d is invalid", path, cfg.Width, cfg.Height)
	}
	return cfg, nil
}
