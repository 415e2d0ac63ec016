// Package config handles fdtool configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all fdtool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Decode  DecodeConfig  `yaml:"decode"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DecodeConfig holds level decoding settings.
type DecodeConfig struct {
	Workers int `yaml:"workers"` // Rooms decoded in parallel
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format   string `yaml:"format"`   // text or json
	Compress bool   `yaml:"compress"` // zstd-compress exported snapshots
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
		Decode: DecodeConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Format:   FormatText,
			Compress: true,
		},
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Decode.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Decode.Workers)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	return nil
}
