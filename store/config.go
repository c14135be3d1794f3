package store

import "time"

// Config is the store's explicit option struct: every tunable the store
// layer needs, enumerated rather than passed as loose arguments or read
// from a global.
type Config struct {
	Path              string        `yaml:"path"`
	CreateIfMissing   bool          `yaml:"create_if_missing"`
	CacheSize         int           `yaml:"cache_size"`
	ForeignKeys       bool          `yaml:"foreign_keys"`
	EnableWAL         bool          `yaml:"enable_wal"`
	MaxConnections    int           `yaml:"max_connections"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// DefaultConfig returns the compiled-in defaults the config package
// applies before unmarshalling a YAML document over them.
func DefaultConfig() Config {
	return Config{
		Path:              "uls.db",
		CreateIfMissing:   true,
		CacheSize:         10000,
		ForeignKeys:       true,
		EnableWAL:         true,
		MaxConnections:    8,
		ConnectionTimeout: 30 * time.Second,
	}
}
