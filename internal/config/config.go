// Package config loads the service configuration from a YAML file with
// UIRE_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, corresponding to .uire.yml.
type Config struct {
	Port         int     `yaml:"port" koanf:"port"`
	DataDir      string  `yaml:"data_dir" koanf:"data_dir"`
	Salt         string  `yaml:"salt" koanf:"salt"`
	RateLimit    float64 `yaml:"rate_limit" koanf:"rate_limit"` // requests per second per client
	APIKey       string  `yaml:"api_key" koanf:"api_key"`       // empty disables the key check
	EventLog     string  `yaml:"event_log" koanf:"event_log"`
	CORSAllowAll bool    `yaml:"cors_allow_all" koanf:"cors_allow_all"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		DataDir:      "data",
		Salt:         "uire_salt",
		RateLimit:    10,
		EventLog:     "logs/events.jsonl",
		CORSAllowAll: true,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (UIRE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: UIRE_PORT -> port, etc.
	if err := k.Load(env.Provider("UIRE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "UIRE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Salt == "" {
		return fmt.Errorf("salt is required")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %v", c.RateLimit)
	}
	if c.EventLog == "" {
		return fmt.Errorf("event_log is required")
	}
	return nil
}
