package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
)

// Output formats
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
	OutputCSV   = "csv"
)

// Config is the contents of the YAML configuration file
type Config struct {
	Logging LoggingConfig        `yaml:"logging"`
	Rates   pricing.SourceConfig `yaml:"rates"`
	Output  string               `yaml:"output"`
	Metrics MetricsConfig        `yaml:"metrics"`
}

// LoggingConfig controls the global logger
type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint of the watch command
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			File:   "~/.go-api-cost-tracker/logs/app.log",
			Format: "text",
		},
		Rates: pricing.SourceConfig{
			RatesSource: pricing.SourceDefault,
		},
		Output: OutputText,
	}
}

// Load reads path over the defaults. A missing file yields the defaults when
// optional is set, and an error otherwise.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputTable, OutputCSV:
	default:
		return fmt.Errorf("invalid output format: %s", c.Output)
	}

	switch c.Rates.RatesSource {
	case pricing.SourceDefault, "":
	case pricing.SourceFile:
		if c.Rates.RatesFile == "" {
			return fmt.Errorf("rates.rates_file is required when rates.rates_source is %q", pricing.SourceFile)
		}
	default:
		return fmt.Errorf("invalid rates source: %s", c.Rates.RatesSource)
	}

	switch c.Logging.Format {
	case "text", "json", "":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}
