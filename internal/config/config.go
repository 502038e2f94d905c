// Tideland Go Task Engine - Application Configuration
//
// Copyright (C) 2014-2026 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Package config loads the configuration of the taskengine command from a
// YAML file, the environment, and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tideland.dev/go/taskengine"
)

// EnvPrefix is the prefix of environment variables, e.g. TASKENGINE_ENGINE_WORKER_COUNT.
const EnvPrefix = "TASKENGINE"

// Config is the root configuration of the command.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// EngineConfig mirrors the options of a taskengine pool.
type EngineConfig struct {
	WorkerCount       int           `mapstructure:"worker_count"`
	QueueCapacity     int           `mapstructure:"queue_capacity"`
	ResultBuffer      int           `mapstructure:"result_buffer"`
	RateLimitInterval time.Duration `mapstructure:"rate_limit_interval"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig defines the logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs     []string       `mapstructure:"outputs"`
	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls the rotation of log files.
type RotationConfig struct {
	Enable     bool `mapstructure:"enable"`
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint, empty disables it.
	Listen    string `mapstructure:"listen"`
	Namespace string `mapstructure:"namespace"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	engine := taskengine.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			WorkerCount:       engine.WorkerCount,
			QueueCapacity:     engine.QueueCapacity,
			RateLimitInterval: engine.RateLimitInterval,
			ShutdownTimeout:   engine.ShutdownTimeout,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Metrics: MetricsConfig{
			Namespace: "taskengine",
		},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"workers":          "engine.worker_count",
	"queue":            "engine.queue_capacity",
	"rate":             "engine.rate_limit_interval",
	"shutdown-timeout": "engine.shutdown_timeout",
	"log-level":        "log.level",
	"metrics-listen":   "metrics.listen",
}

// Load reads the configuration. Values are taken with rising priority from
// the defaults, the file at path (if not empty), the environment, and the
// flags set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Seed the defaults so that env-only configurations work.
	v.SetDefault("engine.worker_count", cfg.Engine.WorkerCount)
	v.SetDefault("engine.queue_capacity", cfg.Engine.QueueCapacity)
	v.SetDefault("engine.result_buffer", cfg.Engine.ResultBuffer)
	v.SetDefault("engine.rate_limit_interval", cfg.Engine.RateLimitInterval)
	v.SetDefault("engine.shutdown_timeout", cfg.Engine.ShutdownTimeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("metrics.listen", cfg.Metrics.Listen)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values which are not validated by the engine itself.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	if len(c.Log.Outputs) == 0 {
		errs = append(errs, errors.New("no log outputs configured"))
	}
	return errors.Join(errs...)
}

// Options returns the pool options for the engine configuration.
func (e EngineConfig) Options() []taskengine.Option {
	return []taskengine.Option{
		taskengine.WithWorkerCount(e.WorkerCount),
		taskengine.WithQueueCapacity(e.QueueCapacity),
		taskengine.WithResultBuffer(e.ResultBuffer),
		taskengine.WithRateLimit(e.RateLimitInterval),
		taskengine.WithShutdownTimeout(e.ShutdownTimeout),
	}
}

// EOF
