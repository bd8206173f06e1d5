package config

import (
	"os"
	"time"
)

// Config represents the full configuration for the coordination layer.
type Config struct {
	Discovery DiscoveryConfig `yaml:"discovery"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DiscoveryConfig controls host discovery and presence scanning.
type DiscoveryConfig struct {
	HostTTL      time.Duration `yaml:"host_ttl"`      // Registry entry staleness threshold
	ScanInterval time.Duration `yaml:"scan_interval"` // Minimum time between friend sweeps
}

// SessionConfig controls session-group creation.
type SessionConfig struct {
	MaxMembers int    `yaml:"max_members"` // Session-group capacity
	Visibility string `yaml:"visibility"`  // "public" or "friends"
	Version    string `yaml:"version"`     // Version marker published in presence
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Colors bool   `yaml:"colors"` // ANSI colored output
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			HostTTL:      30 * time.Second,
			ScanInterval: 3 * time.Second,
		},
		Session: SessionConfig{
			MaxMembers: 4,
			Visibility: VisibilityPublic,
			Version:    "1.0.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Colors: true,
		},
	}
}

// Visibility values accepted by SessionConfig.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
)

// LoadFromFile reads, strictly decodes and validates a YAML config file.
// Missing fields keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := DecodeStrict(f, cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return cfg, nil
}
