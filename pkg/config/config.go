// Package config loads server configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts human-readable values like "500ms" or "1m" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level server configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Rate     RateConfig     `yaml:"rate"`
	Export   ExportConfig   `yaml:"export"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

// UpstreamConfig controls the Google Trends HTTP client.
type UpstreamConfig struct {
	BaseURL        string   `yaml:"base_url"`
	Locale         string   `yaml:"locale"`
	TimezoneOffset int      `yaml:"timezone_offset"`
	HTTPTimeout    Duration `yaml:"http_timeout"`
}

// RateConfig controls request pacing and retry behavior.
type RateConfig struct {
	RequestInterval Duration `yaml:"request_interval"`
	MaxAttempts     uint     `yaml:"max_attempts"`
	BaseDelay       Duration `yaml:"base_delay"`
	MaxDelay        Duration `yaml:"max_delay"`
}

// ExportConfig controls where files and databases are written.
type ExportConfig struct {
	Dir   string `yaml:"dir"`
	DBDir string `yaml:"db_dir"`
}

// LoadFile reads a YAML configuration file. A missing path yields the
// zero Config so every setting falls back to its default.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
