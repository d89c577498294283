package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting this module
// reads: GOCHEM_MATCH_MAX_ITERATIONS, GOCHEM_LOG_LEVEL, and so on.
const envPrefix = "GOCHEM"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"match.max_iterations",
		"match.default_mode",
		"log.level",
		"log.format",
		"log.output_paths",
	} {
		_ = v.BindEnv(key)
	}

	return v
}

// Load reads the YAML file at configPath, applies GOCHEM_* environment
// overrides and this module's defaults, validates the result, and returns
// the populated Config.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from GOCHEM_* environment variables and
// defaults alone, with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk. A change that fails
// to parse or validate is skipped silently, leaving the previous Config
// (and hence the running process) untouched.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
