// control/viper.go
// Author: momentics <momentics@gmail.com>
//
// Layered configuration: defaults, optional file, environment and bound flags.

package control

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PKT_LOG_LEVEL.
const EnvPrefix = "PKT"

// NewViper returns a viper instance preloaded with DefaultConfig and wired
// for environment overrides. A non-empty path is used as the config file.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadViper reads the configured file, if any, and decodes the merged view.
func LoadViper(v *viper.Viper) (Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("pool.size_classes", cfg.Pool.SizeClasses)
	v.SetDefault("pool.max_free_per_class", cfg.Pool.MaxFreePerClass)
	v.SetDefault("pool.max_in_use_bytes", cfg.Pool.MaxInUseBytes)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output_path", cfg.Log.OutputPath)
	v.SetDefault("log.caller", cfg.Log.Caller)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
}
