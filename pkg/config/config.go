// Package config loads jsonv settings from a YAML file, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config file is given explicitly
const DefaultFile = ".jsonv.yaml"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the settings shared by all commands.
type Config struct {
	SchemaDir   string `yaml:"schema_dir"`
	SchemaID    string `yaml:"schema_id"`
	Output      string `yaml:"output"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsAddr string `yaml:"metrics_addr"`
	Concurrency int    `yaml:"concurrency"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		SchemaDir:   "schemas",
		Output:      OutputText,
		LogLevel:    "info",
		LogFormat:   "console",
		Concurrency: 4,
	}
}

// Load builds the configuration from defaults, the YAML file at path, the given
// .env files (".env" when none) and JSONV_* environment variables, in that order.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	if err := cfg.readFile(file); err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JSONV_SCHEMA_DIR"); v != "" {
		c.SchemaDir = v
	}
	if v := os.Getenv("JSONV_SCHEMA_ID"); v != "" {
		c.SchemaID = v
	}
	if v := os.Getenv("JSONV_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("JSONV_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("JSONV_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("JSONV_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("JSONV_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JSONV_CONCURRENCY %q: %w", v, err)
		}
		c.Concurrency = n
	}
	return nil
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unsupported output format %q (expected %s or %s)", c.Output, OutputText, OutputJSON)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.SchemaDir == "" {
		return errors.New("schema directory must not be empty")
	}
	return nil
}
