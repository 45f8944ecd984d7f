package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Upstream backend
	Upstream UpstreamConfig `mapstructure:"upstream"`

	// Dashboard behavior
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// UpstreamConfig points at the monitoring backend.
type UpstreamConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLimit int           `mapstructure:"log_limit"`
}

// DashboardConfig holds refresh and presentation defaults.
type DashboardConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LiveInterval    time.Duration `mapstructure:"live_interval"`
	Layout          string        `mapstructure:"layout"`
	WindowSize      int           `mapstructure:"window_size"`
	WindowIncrement int           `mapstructure:"window_increment"`
	// TypeOrder is the hierarchical layout's fixed layer ordering. Entity
	// types outside it are not assigned a layer.
	TypeOrder []string `mapstructure:"type_order"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Upstream: UpstreamConfig{
			URL:      "http://localhost:4000",
			Timeout:  10 * time.Second,
			LogLimit: 500,
		},
		Dashboard: DashboardConfig{
			RefreshInterval: 30 * time.Second,
			LiveInterval:    3 * time.Second,
			Layout:          "force",
			WindowSize:      50,
			WindowIncrement: 50,
			TypeOrder:       []string{"service", "database", "cache", "queue", "external"},
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.opsdeck.yaml or ./.opsdeck.yml
// 2. ~/.opsdeck.yaml or ~/.opsdeck.yml
// 3. $XDG_CONFIG_HOME/opsdeck/config.yaml (or ~/.config/opsdeck/config.yaml)
// 4. /etc/opsdeck/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".opsdeck.yaml", ".opsdeck.yml", "opsdeck.yaml", "opsdeck.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "opsdeck"))
	}
	searchPaths = append(searchPaths, "/etc/opsdeck")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPSDECK_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("OPSDECK_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("OPSDECK_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("OPSDECK_UPSTREAM_URL"); v != "" {
		cfg.Upstream.URL = v
	}
	if v := os.Getenv("OPSDECK_LAYOUT"); v != "" {
		cfg.Dashboard.Layout = v
	}
	if v := os.Getenv("OPSDECK_LIVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Dashboard.LiveInterval = d
		}
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
