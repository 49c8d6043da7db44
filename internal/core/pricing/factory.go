package pricing

import (
	"fmt"

	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

// Rate sources
const (
	SourceDefault = "default"
	SourceFile    = "file"
)

// SourceConfig selects where the rate table comes from
type SourceConfig struct {
	RatesSource string `yaml:"rates_source"`
	RatesFile   string `yaml:"rates_file"`
}

// CreateRateProvider creates a rate provider based on configuration
func CreateRateProvider(cfg *SourceConfig) (RateProvider, error) {
	switch cfg.RatesSource {
	case SourceDefault, "":
		util.LogDebug("Using built-in rate table")
		return NewDefaultProvider(), nil
	case SourceFile:
		if cfg.RatesFile == "" {
			return nil, fmt.Errorf("rates source %q requires a rate file", SourceFile)
		}
		provider, err := LoadRateFile(cfg.RatesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rate provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown rates source: %s", cfg.RatesSource)
	}
}
