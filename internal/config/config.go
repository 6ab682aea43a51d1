// Package config loads the fieldml CLI configuration.
//
// Config file locations (priority order):
//  1. $FIELDML_CONFIG
//  2. ./fieldml.yaml
//  3. ~/.config/fieldml/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "FIELDML_CONFIG"
	// ConfigFileName is the config file looked for in the working directory.
	ConfigFileName = "fieldml.yaml"
	// ConfigDirName is the directory under ~/.config.
	ConfigDirName = "fieldml"

	DefaultFormat   = "text"
	DefaultDatabase = "./fieldml.db"
)

// Config holds the settings shared by every command.
type Config struct {
	// Debug enables debug logging and per-call session tracing.
	Debug bool `yaml:"debug"`
	// Format is the output format: text, json or yaml.
	Format string `yaml:"format"`
	// DataRoot resolves relative import and resource hrefs. Empty means the
	// directory of the document being loaded.
	DataRoot string `yaml:"data_root"`
	// Database is the snapshot archive path.
	Database string `yaml:"database"`
	// Library serves the built-in library region. Nil means enabled.
	Library *bool `yaml:"library,omitempty"`
}

// Load finds and loads the config file, or returns defaults if none is found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("parse config: unknown format %q (want text, json or yaml)", c.Format)
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Library == nil {
		enabled := true
		c.Library = &enabled
	}
	return nil
}

// LibraryEnabled reports whether the built-in library region is served.
func (c *Config) LibraryEnabled() bool {
	return c.Library == nil || *c.Library
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
