package pricing

import (
	"fmt"
	"os"

	"github.com/penwyp/go-api-cost-tracker/internal/util"
	"gopkg.in/yaml.v3"
)

// RateFile is the on-disk layout of a rate table
type RateFile struct {
	Providers RateTable `yaml:"providers"`
}

// FileProvider serves a rate table loaded once from a YAML file
type FileProvider struct {
	path  string
	rates RateTable
}

// LoadRateFile reads and validates a YAML rate table. The file is read once;
// later edits are not picked up.
func LoadRateFile(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate file: %w", err)
	}

	var file RateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate file %s: %w", path, err)
	}
	if len(file.Providers) == 0 {
		return nil, fmt.Errorf("rate file %s defines no providers", path)
	}

	rates, err := file.Providers.normalize()
	if err != nil {
		return nil, fmt.Errorf("invalid rate file %s: %w", path, err)
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate file %s: %w", path, err)
	}

	util.LogDebugf("Loaded %d model rates from %s", rates.Len(), path)
	return &FileProvider{path: path, rates: rates}, nil
}

// Lookup returns the rate for a provider/model pair
func (p *FileProvider) Lookup(provider, modelID string) (RateEntry, error) {
	return p.rates.Lookup(provider, modelID)
}

// All returns a copy of the loaded table
func (p *FileProvider) All() RateTable {
	return p.rates.Clone()
}

// Name returns the name of this rate provider
func (p *FileProvider) Name() string {
	return SourceFile
}

// Path returns the file the rates were loaded from
func (p *FileProvider) Path() string {
	return p.path
}

// SaveRateFile writes a rate table in the format LoadRateFile reads
func SaveRateFile(path string, rates RateTable) error {
	data, err := yaml.Marshal(RateFile{Providers: rates})
	if err != nil {
		return fmt.Errorf("failed to marshal rate table: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rate file: %w", err)
	}
	return nil
}
