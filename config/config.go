// Package config declares ULSDB's option-struct configuration surface
// and loads it from YAML. Tunables live in explicit structs passed into
// constructors, never in globals.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/n6ul/ulsdb/freshness"
	"github.com/n6ul/ulsdb/store"
)

// Config is the top-level configuration document: the store's option
// struct and the staleness subsystem's option struct, composed under
// their own YAML sections.
type Config struct {
	Store     store.Config     `yaml:"store"`
	Freshness freshness.Config `yaml:"freshness"`
}

// Unmarshal parses config, applying defaults first so a YAML document that
// omits a whole section (or is empty) still produces a usable Config.
func Unmarshal(config []byte) (*Config, error) {
	cfg := &Config{
		Store:     store.DefaultConfig(),
		Freshness: freshness.DefaultConfig(),
	}
	if err := yaml.Unmarshal(config, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w. make sure to use 'single quotes' around strings with special characters", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile loads and parses a YAML config file.
func LoadConfigFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", filename, err)
	}
	cfg, err := LoadConfigString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", filename, err)
	}
	return cfg, nil
}

// LoadConfigString parses a YAML document already held in memory.
func LoadConfigString(content []byte) (*Config, error) {
	return Unmarshal(content)
}

func (c *Config) validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Store.CacheSize < 0 {
		return fmt.Errorf("store.cache_size must not be negative, got %d", c.Store.CacheSize)
	}
	if c.Store.MaxConnections < 1 {
		return fmt.Errorf("store.max_connections must be at least 1, got %d", c.Store.MaxConnections)
	}
	if c.Store.ConnectionTimeout < 0 {
		return fmt.Errorf("store.connection_timeout must not be negative")
	}
	if c.Freshness.ThresholdDays < 0 {
		return fmt.Errorf("freshness.threshold_days must not be negative, got %d", c.Freshness.ThresholdDays)
	}
	return nil
}
