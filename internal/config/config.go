package config

import (
	"errors"
	"time"
)

// Config is the top-level configuration for rankhist.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	StatsDir   string         `mapstructure:"stats_dir"`
	SteamID    string         `mapstructure:"steam_id"`
	Benchmark  string         `mapstructure:"benchmark"`
	Difficulty string         `mapstructure:"difficulty"`
	Oracle     OracleConfig   `mapstructure:"oracle"`
	Dispatch   DispatchConfig `mapstructure:"dispatch"`
}

// OracleConfig locates the rank-calculator executable and bounds each call.
type OracleConfig struct {
	Path    string `mapstructure:"path"`
	Timeout string `mapstructure:"timeout"`
}

// DispatchConfig holds the batch dispatcher knobs.
type DispatchConfig struct {
	BatchSize int `mapstructure:"batch_size"`
	Workers   int `mapstructure:"workers"`
}

// Defaults applied when a key is absent from file, env, and flags.
const (
	DefaultOracleTimeout = "5m"
	DefaultBatchSize     = 50
	DefaultWorkers       = 4
	DefaultDifficulty    = "Advanced"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBatchSize indicates the batch size is negative.
	ErrInvalidBatchSize = errors.New("dispatch.batch_size must be non-negative")
	// ErrInvalidWorkers indicates the worker count is negative.
	ErrInvalidWorkers = errors.New("dispatch.workers must be non-negative")
	// ErrInvalidTimeout indicates the oracle timeout does not parse as a duration.
	ErrInvalidTimeout = errors.New("oracle.timeout must be a valid duration")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Dispatch.BatchSize < 0 {
		return ErrInvalidBatchSize
	}

	if c.Dispatch.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Oracle.Timeout != "" {
		_, err := time.ParseDuration(c.Oracle.Timeout)
		if err != nil {
			return ErrInvalidTimeout
		}
	}

	return nil
}

// OracleTimeout returns the parsed oracle call timeout. Validate guarantees
// a configured value parses; an empty value falls back to the default.
func (c *Config) OracleTimeout() time.Duration {
	raw := c.Oracle.Timeout
	if raw == "" {
		raw = DefaultOracleTimeout
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil {
		timeout, _ = time.ParseDuration(DefaultOracleTimeout)
	}

	return timeout
}
