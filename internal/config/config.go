// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default values applied when nothing else sets a key.
const (
	DefaultAPIURL          = "http://localhost:5000"
	DefaultRefreshInterval = 30 * time.Second
	DefaultRedirectDelay   = 2 * time.Second
	DefaultRateLimit       = 5.0
	DefaultLogLevel        = "info"
)

// DefaultEnvironments are the test environments of the reference deployment.
var DefaultEnvironments = []string{"acceptatie", "test", "development"}

// Config holds all configuration values for lmsenv.
type Config struct {
	APIURL          string        `mapstructure:"api_url" yaml:"api_url"`
	Environments    []string      `mapstructure:"environments" yaml:"environments"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	RedirectDelay   time.Duration `mapstructure:"redirect_delay" yaml:"redirect_delay"`
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile         string        `mapstructure:"log_file" yaml:"log_file"`
}

// Defaults returns a config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		APIURL:          DefaultAPIURL,
		Environments:    append([]string(nil), DefaultEnvironments...),
		RefreshInterval: DefaultRefreshInterval,
		RedirectDelay:   DefaultRedirectDelay,
		RateLimit:       DefaultRateLimit,
		LogLevel:        DefaultLogLevel,
	}
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"api_url":          "LMSENV_API_URL",
	"environments":     "LMSENV_ENVIRONMENTS",
	"refresh_interval": "LMSENV_REFRESH_INTERVAL",
	"redirect_delay":   "LMSENV_REDIRECT_DELAY",
	"rate_limit":       "LMSENV_RATE_LIMIT",
	"log_level":        "LMSENV_LOG_LEVEL",
	"log_file":         "LMSENV_LOG_FILE",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("lmsenv")

	d := Defaults()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("environments", d.Environments)
	v.SetDefault("refresh_interval", d.RefreshInterval)
	v.SetDefault("redirect_delay", d.RedirectDelay)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("LMSENV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return &cfg, nil
}

// Validate reports settings that would make the client unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is not configured")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("redirect_delay must not be negative, got %s", c.RedirectDelay)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/lmsenv/lmsenv.yml or $XDG_CONFIG_HOME/lmsenv/lmsenv.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lmsenv", "lmsenv.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lmsenv", "lmsenv.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "lmsenv.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
