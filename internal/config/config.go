// Package config defines this module's configuration structures and loads
// them with viper (YAML file + environment overrides), mirroring the layer
// turtacn-KeyIP-Intelligence builds around the same library.
package config

import "fmt"

// MatchConfig holds the VF2 matcher's process-wide tunables.
type MatchConfig struct {
	// MaxIterations bounds the matcher's DFS step count before it gives up
	// with vf2.ErrLimitExceeded. Zero means "use the package default".
	MaxIterations int `mapstructure:"max_iterations"`
	// DefaultMode is the GraphMode new CLI invocations use when the caller
	// does not pass --mode: "exact" or "substructure".
	DefaultMode string `mapstructure:"default_mode"`
}

// LogConfig holds structured-logging parameters, handed to internal/logging.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration object for gochemmatch.
type Config struct {
	Match MatchConfig `mapstructure:"match"`
	Log   LogConfig   `mapstructure:"log"`
}

// Validate rejects configuration combinations the matcher cannot act on.
func (c *Config) Validate() error {
	if c.Match.MaxIterations < 0 {
		return fmt.Errorf("config: match.max_iterations must be >= 0, got %d", c.Match.MaxIterations)
	}
	switch c.Match.DefaultMode {
	case "", "exact", "substructure":
	default:
		return fmt.Errorf("config: match.default_mode must be \"exact\" or \"substructure\", got %q", c.Match.DefaultMode)
	}
	return nil
}
