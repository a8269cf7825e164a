// Package config holds process-wide UMPS configuration: the ambient YAML
// document (logging, context sizing, default ZAP domain, store paths) and
// the §6 INI surface consumed by individual components.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uofuseismo/umps/internal/ulogging"
)

// Config is the top-level process configuration document.
type Config struct {
	Context        ContextConfig   `yaml:"context"`
	Logging        ulogging.Config `yaml:"logging"`
	Authentication AuthConfig      `yaml:"authentication"`
}

// ContextConfig sizes the shared transport context (C4).
type ContextConfig struct {
	IOThreads int `yaml:"io_threads"`
}

// AuthConfig points at the on-disk authenticator store and default domain.
type AuthConfig struct {
	SQLite3File   string `yaml:"sqlite3_file"`
	DefaultDomain string `yaml:"default_domain"`
}

// Load reads and parses a YAML configuration file, applying defaults for
// the I/O thread count, log level, log format and default domain when
// they are left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Context.IOThreads <= 0 {
		c.Context.IOThreads = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Authentication.DefaultDomain == "" {
		c.Authentication.DefaultDomain = "global"
	}
}

