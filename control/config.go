// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration file model, defaults and validation.

package control

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-packet/pool"
)

// Config is the top-level configuration document.
type Config struct {
	Pool PoolConfig `yaml:"pool" mapstructure:"pool"`
	Log  LogConfig  `yaml:"log" mapstructure:"log"`
}

// PoolConfig configures the buffer pool.
type PoolConfig struct {
	SizeClasses     []int `yaml:"size_classes" mapstructure:"size_classes"`
	MaxFreePerClass int   `yaml:"max_free_per_class" mapstructure:"max_free_per_class"`
	MaxInUseBytes   int64 `yaml:"max_in_use_bytes" mapstructure:"max_in_use_bytes"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `yaml:"format" mapstructure:"format"`           // console or json
	OutputPath string `yaml:"output_path" mapstructure:"output_path"` // stdout, stderr or a file
	Caller     bool   `yaml:"caller" mapstructure:"caller"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	opts := pool.DefaultOptions()
	return Config{
		Pool: PoolConfig{
			SizeClasses:     opts.SizeClasses,
			MaxFreePerClass: opts.MaxFreePerClass,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	for _, sz := range c.Pool.SizeClasses {
		if sz <= 0 {
			return fmt.Errorf("pool.size_classes: invalid size %d", sz)
		}
	}
	if c.Pool.MaxFreePerClass < 0 {
		return fmt.Errorf("pool.max_free_per_class: must be >= 0, got %d", c.Pool.MaxFreePerClass)
	}
	if c.Pool.MaxInUseBytes < 0 {
		return fmt.Errorf("pool.max_in_use_bytes: must be >= 0, got %d", c.Pool.MaxInUseBytes)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// Options converts the section into pool.Options.
func (pc PoolConfig) Options() pool.Options {
	classes := make([]int, len(pc.SizeClasses))
	copy(classes, pc.SizeClasses)
	return pool.Options{
		SizeClasses:     classes,
		MaxFreePerClass: pc.MaxFreePerClass,
		MaxInUseBytes:   pc.MaxInUseBytes,
	}
}
