package freshness

// Config is the staleness subsystem's explicit option struct.
type Config struct {
	ThresholdDays int  `yaml:"threshold_days"`
	WarnEnabled   bool `yaml:"warn_enabled"`
	AutoUpdate    bool `yaml:"auto_update"`
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		ThresholdDays: 3,
		WarnEnabled:   true,
		AutoUpdate:    false,
	}
}
