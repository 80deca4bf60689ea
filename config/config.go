// Package config loads the lintx509 configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/certcat/lintx509/x509lint"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvFile names the environment variable consulted when no config path is
// given.
const EnvFile = "LINTX509_CONFIG"

// Output formats accepted by output.format.
const (
	FormatTree  = "tree"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Config is the lintx509 configuration. Zero values in a loaded file fall
// back to the defaults of Default.
type Config struct {
	Policy struct {
		// RejectUnknownCritical fails certificates carrying a critical
		// extension that has no decoder.
		RejectUnknownCritical bool `yaml:"reject_unknown_critical"`
	} `yaml:"policy"`

	Log struct {
		// Level is a zap level name: debug, info, warn or error.
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Server struct {
		Listen       string `yaml:"listen"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// applyDefaults fills every unset or unusable setting with its default.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatTree
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $LINTX509_CONFIG, and to the defaults alone if that is unset too.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Output.Format {
	case FormatTree, FormatJSON, FormatTable:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

// ParseOptions returns the certificate parsing policy.
func (c *Config) ParseOptions() x509lint.Options {
	return x509lint.Options{RejectUnknownCritical: c.Policy.RejectUnknownCritical}
}

// Logger builds the zap logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
