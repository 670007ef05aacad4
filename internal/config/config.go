// Package config defines service configuration structures and loading hooks.
//
// Configuration is layered: defaults from New, then an optional YAML file,
// then FAIRDEAL_* environment variables.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataFile points at the YAML reference data (players and contracts).
	DataFile string `koanf:"data_file"`

	// InflationPercent is the default annual rate used to present-value
	// reference contracts.
	InflationPercent float64 `koanf:"inflation_percent"`

	// PresentYear is the default valuation year; 0 means the current year.
	PresentYear int `koanf:"present_year"`

	AdjustAAV   bool `koanf:"adjust_aav"`
	AdjustYears bool `koanf:"adjust_years"`

	// WorkerCount sets the number of batch valuation workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps POST /valuations/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// CategoryWeights overrides registry weights by category key.
	CategoryWeights map[string]float64 `koanf:"category_weights"`

	// PositionProfiles overrides or adds position weight profiles.
	PositionProfiles map[string]map[string]float64 `koanf:"position_profiles"`
}

// New creates a Config with defaults. The context is reserved for future
// loaders and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DataFile:         "data/players.yaml",
		InflationPercent: 4,
		AdjustAAV:        true,
		AdjustYears:      true,
		WorkerCount:      runtime.NumCPU() * 2,
		MaxBatchSize:     256,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must not be negative, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive, got %d", ErrInvalidConfig, c.MaxBatchSize)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
