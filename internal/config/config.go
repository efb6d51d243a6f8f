// Package config loads cardscan settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel  string       `yaml:"log_level"`
	TryHarder bool         `yaml:"try_harder"`
	Workers   int          `yaml:"workers"`
	MaxWidth  int          `yaml:"max_width"` // scans wider than this are scaled down first; 0 disables
	Encode    EncodeConfig `yaml:"encode"`
}

type EncodeConfig struct {
	Narrow int  `yaml:"narrow"` // narrow element width in pixels
	Wide   int  `yaml:"wide"`   // wide element width in pixels
	Height int  `yaml:"height"`
	Margin int  `yaml:"margin"` // quiet zone in narrow elements
	Label  bool `yaml:"label"`  // print the digits under the bars
}

// Defaults returns a Config populated with all default values.
func Defaults() *Config {
	return &Config{
		LogLevel: "warn",
		Workers:  4,
		MaxWidth: 2000,
		Encode: EncodeConfig{
			Narrow: 2,
			Wide:   5,
			Height: 60,
			Margin: 10,
			Label:  true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cardscan/config.yaml, falling back to
// the user config directory of the platform.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cardscan", "config.yaml")
}

// Load reads path over the defaults. A missing file yields an error that
// satisfies os.IsNotExist.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path in YAML format, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative, got %d", c.MaxWidth)
	}
	e := c.Encode
	if e.Narrow < 1 || e.Wide < 2*e.Narrow {
		return fmt.Errorf("encode: wide (%d) must be at least twice narrow (%d)", e.Wide, e.Narrow)
	}
	if e.Height < 1 || e.Margin < 0 {
		return fmt.Errorf("encode: height must be positive and margin non-negative")
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
