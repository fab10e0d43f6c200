// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultTimespan is the fallback minimum gap between summary points, in hours.
	DefaultTimespan = 24
)

// Config represents the top-level application configuration. Every
// field can also be supplied as a command flag; flags win over the
// config file, which wins over defaults.
type Config struct {
	Timespan    int      `json:"timespan"`
	Platforms   []string `json:"platforms"`
	Output      string   `json:"output"`
	ChartOutput string   `json:"chartOutput,omitempty"`
	NoChart     bool     `json:"noChart"`
	LogFile     string   `json:"logFile,omitempty"`
	Debug       bool     `json:"debug"`
	ConfigPath  string   `json:"-"`
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Timespan: DefaultTimespan,
		Output:   ".",
	}
}

// Load reads a JSON configuration file. A missing file is not an
// error; the defaults apply. Invalid JSON is fatal.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("unable to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps nonsensical values back to their defaults.
func (c *Config) Normalize() {
	if c.Timespan <= 0 {
		c.Timespan = DefaultTimespan
	}
	if c.Output == "" {
		c.Output = "."
	}
}
