// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level static configuration. Maps to the `sntpc:`
// root key in YAML.
type Config struct {
	Server           string    `mapstructure:"server"`            // Hostname or IPv4 literal
	Port             int       `mapstructure:"port"`              // UDP port, default 123
	ThresholdSeconds int64     `mapstructure:"threshold_seconds"` // Largest |offset| the policy will apply
	AllowBackwards   bool      `mapstructure:"allow_backwards"`   // Permit backward steps
	DryRun           bool      `mapstructure:"dry_run"`           // Decide but never write the clock
	PoolFile         string    `mapstructure:"pool_file"`         // Optional YAML server pool, empty = disabled
	Log              LogConfig `mapstructure:"log"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `sntpc: ...`.
type configRoot struct {
	SNTPC Config `mapstructure:"sntpc"`
}

// Load loads configuration from file. An empty path skips the file and
// loads defaults plus environment overrides, so the tool runs with no
// config at all.
// The YAML file uses `sntpc:` as root key; env vars use the SNTPC_
// prefix (e.g., SNTPC_SERVER, SNTPC_LOG_LEVEL).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variable overrides.
	// No explicit env prefix; the `sntpc.` key prefix naturally maps
	// to `SNTPC_` via the key replacer (key "sntpc.log.level" reads
	// env "SNTPC_LOG_LEVEL").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults with "sntpc." prefix to match the YAML structure
	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.SNTPC

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use the "sntpc." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Sync defaults
	v.SetDefault("sntpc.server", "pool.ntp.org")
	v.SetDefault("sntpc.port", 123)
	v.SetDefault("sntpc.threshold_seconds", 300)
	v.SetDefault("sntpc.allow_backwards", false)
	v.SetDefault("sntpc.dry_run", false)
	v.SetDefault("sntpc.pool_file", "")

	// Log defaults
	v.SetDefault("sntpc.log.level", "info")
	v.SetDefault("sntpc.log.format", "text")
	v.SetDefault("sntpc.log.outputs.file.enabled", false)
	v.SetDefault("sntpc.log.outputs.file.path", "/var/log/sntpc/sntpc.log")
	v.SetDefault("sntpc.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("sntpc.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("sntpc.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("sntpc.log.outputs.file.rotation.compress", true)
}

// ValidateAndApplyDefaults validates configuration values.
func (cfg *Config) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}

	// ── Sync validation ──
	if cfg.Server == "" {
		return fmt.Errorf("server is required")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", cfg.Port)
	}
	if cfg.ThresholdSeconds <= 0 {
		return fmt.Errorf("invalid threshold_seconds: %d (must be positive)", cfg.ThresholdSeconds)
	}

	return nil
}
