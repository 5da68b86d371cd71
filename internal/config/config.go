package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Airflow connection
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for the run/monitor commands
type DefaultsConfig struct {
	DAG        string   `mapstructure:"dag"`
	Interval   string   `mapstructure:"interval"`
	LogSources []string `mapstructure:"log_sources"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Defaults: DefaultsConfig{
			Interval:   "5s",
			LogSources: []string{"root", "task"},
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.dagtail.yaml or ./.dagtail.yml
// 2. ~/.dagtail.yaml or ~/.dagtail.yml
// 3. $XDG_CONFIG_HOME/dagtail/config.yaml (or ~/.config/dagtail/config.yaml)
// 4. /etc/dagtail/config.yaml
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
	names := []string{".dagtail.yaml", ".dagtail.yml", "dagtail.yaml", "dagtail.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	// Search locations in order of precedence (highest first)
	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "dagtail"))
	}
	searchPaths = append(searchPaths, "/etc/dagtail")

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
	if v := os.Getenv("DAGTAIL_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("DAGTAIL_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("DAGTAIL_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("DAGTAIL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("DAGTAIL_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("DAGTAIL_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("DAGTAIL_DAG"); v != "" {
		cfg.Defaults.DAG = v
	}
	if v := os.Getenv("DAGTAIL_INTERVAL"); v != "" {
		cfg.Defaults.Interval = v
	}
	if v := os.Getenv("DAGTAIL_LOG_SOURCES"); v != "" {
		cfg.Defaults.LogSources = strings.Split(v, ",")
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
