// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging and runtime metrics for hioload-packet.
//
// Provides:
//   - YAML configuration with defaults and validation (Config, LoadConfig)
//   - layered file/environment/flag configuration through viper (NewViper, LoadViper)
//   - zap logger construction with optional file rotation (NewLogger)
//   - a metrics registry collecting packet and pool counters (MetricsRegistry)
package control
