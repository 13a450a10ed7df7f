// Package config loads grocktx.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked for when none is given.
const DefaultPath = "grocktx.yaml"

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config represents the top-level grocktx.yaml configuration.
type Config struct {
	Gazetteer GazetteerConfig `yaml:"gazetteer"`
	Parser    ParserConfig    `yaml:"parser"`
	Batch     BatchConfig     `yaml:"batch"`
	Output    OutputConfig    `yaml:"output"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GazetteerConfig locates the zip/city/state reference table.
type GazetteerConfig struct {
	Path string `yaml:"path"` // empty = embedded sample table
}

// ParserConfig controls memo parsing.
type ParserConfig struct {
	// ReferenceDate is the YYYY-MM-DD date used to resolve year-less memo
	// dates when a transaction carries no date of its own. Empty means today.
	ReferenceDate string `yaml:"reference_date"`
}

// BatchConfig controls concurrent parsing.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// StoreConfig locates the SQLite database. Empty disables persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig selects log level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, text or json
}

// Load reads a grocktx.yaml file from disk. ${VAR} references are expanded
// from the environment before parsing, and fields the file leaves out keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, returning the defaults when the file does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Batch: BatchConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}
	switch strings.ToLower(c.Output.Format) {
	case FormatJSON, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %s or %s, got %q", FormatJSON, FormatCSV, c.Output.Format))
	}
	if _, err := c.Parser.Reference(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Reference returns the configured reference date, or the zero time when
// none is set.
func (p ParserConfig) Reference() (time.Time, error) {
	if p.ReferenceDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", p.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parser.reference_date %q: %w", p.ReferenceDate, err)
	}
	return t, nil
}
