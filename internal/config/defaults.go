package config

// Default value constants applied by ApplyDefaults.
const (
	DefaultMaxIterations = 1_000_000
	DefaultMode          = "substructure"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field of cfg with this module's
// default. Fields already set by the caller (a config file or an
// environment override) are left untouched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Match.MaxIterations == 0 {
		cfg.Match.MaxIterations = DefaultMaxIterations
	}
	if cfg.Match.DefaultMode == "" {
		cfg.Match.DefaultMode = DefaultMode
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
}

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
