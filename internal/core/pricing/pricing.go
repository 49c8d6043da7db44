package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
)

// RateEntry defines token pricing for one model, in USD per million tokens
type RateEntry struct {
	InputPerMillion  float64 `json:"input" yaml:"input"`
	OutputPerMillion float64 `json:"output" yaml:"output"`
	// CachedInputPerMillion is informational only; the calculator never applies it.
	CachedInputPerMillion *float64 `json:"cached_input,omitempty" yaml:"cached_input,omitempty"`
}

// InputUnitPrice returns the price of a single input token
func (r RateEntry) InputUnitPrice() float64 {
	return r.InputPerMillion / model.TokensPerMillion
}

// OutputUnitPrice returns the price of a single output token
func (r RateEntry) OutputUnitPrice() float64 {
	return r.OutputPerMillion / model.TokensPerMillion
}

// HasCachedInput reports whether the entry carries a cached-input price
func (r RateEntry) HasCachedInput() bool {
	return r.CachedInputPerMillion != nil
}

func (r RateEntry) validate() error {
	if r.InputPerMillion < 0 || r.OutputPerMillion < 0 {
		return ErrInvalidRate
	}
	if r.CachedInputPerMillion != nil && *r.CachedInputPerMillion < 0 {
		return ErrInvalidRate
	}
	return nil
}

func (r RateEntry) clone() RateEntry {
	if r.CachedInputPerMillion != nil {
		v := *r.CachedInputPerMillion
		r.CachedInputPerMillion = &v
	}
	return r
}

// RateTable maps provider -> model -> rate. Provider keys are upper-case.
type RateTable map[string]map[string]RateEntry

func cached(v float64) *float64 { return &v }

// staticRates stores the built-in prices, per million tokens
var staticRates = RateTable{
	model.ProviderOpenAI: {
		"gpt-4o":        {InputPerMillion: 2.50, OutputPerMillion: 10.00},
		"gpt-4o-mini":   {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		"gpt-4.1":       {InputPerMillion: 2.00, OutputPerMillion: 8.00},
		"gpt-4.1-mini":  {InputPerMillion: 0.40, OutputPerMillion: 1.60},
		"gpt-4.1-nano":  {InputPerMillion: 0.10, OutputPerMillion: 0.40},
		"gpt-4-turbo":   {InputPerMillion: 10.00, OutputPerMillion: 30.00},
		"gpt-4":         {InputPerMillion: 30.00, OutputPerMillion: 60.00},
		"gpt-3.5-turbo": {InputPerMillion: 0.50, OutputPerMillion: 1.50},
		"o3":            {InputPerMillion: 1.00, OutputPerMillion: 4.00, CachedInputPerMillion: cached(0.25)},
		"o1":            {InputPerMillion: 15.00, OutputPerMillion: 60.00},
		"o1-mini":       {InputPerMillion: 3.00, OutputPerMillion: 12.00},
		"o1-preview":    {InputPerMillion: 15.00, OutputPerMillion: 60.00},
		"gpt-o3":        {InputPerMillion: 1.00, OutputPerMillion: 4.00}, // alternative naming of o3
		"o3-mini":       {InputPerMillion: 0.30, OutputPerMillion: 1.20},
	},
	model.ProviderClaude: {
		"claude-4-opus":            {InputPerMillion: 15.00, OutputPerMillion: 75.00},
		"claude-4.1-opus":          {InputPerMillion: 15.00, OutputPerMillion: 75.00},
		"claude-4-sonnet":          {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-opus-4-1-20250805": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-3.7-sonnet":        {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-3.5-sonnet":        {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-3.5-haiku":         {InputPerMillion: 0.80, OutputPerMillion: 4.00},
		"claude-3-opus":            {InputPerMillion: 15.00, OutputPerMillion: 75.00},
		"claude-3-sonnet":          {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-3-haiku":           {InputPerMillion: 0.25, OutputPerMillion: 1.25},
	},
}

// NormalizeProvider returns the upper-case key a provider is stored under
func NormalizeProvider(provider string) string {
	return strings.ToUpper(strings.TrimSpace(provider))
}

// Lookup returns the rate for a provider/model pair.
// There is no fallback pricing: unknown pairs return *UnknownModelError.
func (t RateTable) Lookup(provider, modelID string) (RateEntry, error) {
	if models, ok := t[NormalizeProvider(provider)]; ok {
		if rate, ok := models[modelID]; ok {
			return rate, nil
		}
	}
	return RateEntry{}, &UnknownModelError{Provider: provider, Model: modelID}
}

// Clone returns a deep copy of the table
func (t RateTable) Clone() RateTable {
	result := make(RateTable, len(t))
	for provider, models := range t {
		copied := make(map[string]RateEntry, len(models))
		for id, rate := range models {
			copied[id] = rate.clone()
		}
		result[provider] = copied
	}
	return result
}

// Providers returns the provider keys in sorted order
func (t RateTable) Providers() []string {
	providers := make([]string, 0, len(t))
	for p := range t {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// Models returns the model ids of a provider in sorted order
func (t RateTable) Models(provider string) []string {
	models := t[NormalizeProvider(provider)]
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of priced models across all providers
func (t RateTable) Len() int {
	n := 0
	for _, models := range t {
		n += len(models)
	}
	return n
}

// Validate checks that every price is non-negative and provider keys are normalized
func (t RateTable) Validate() error {
	for provider, models := range t {
		if provider != NormalizeProvider(provider) || provider == "" {
			return fmt.Errorf("provider key %q must be non-empty upper-case", provider)
		}
		for id, rate := range models {
			if err := rate.validate(); err != nil {
				return fmt.Errorf("%s:%s: %w", provider, id, err)
			}
		}
	}
	return nil
}

// normalize upper-cases provider keys. Providers differing only in case are
// merged; a model priced under more than one of them is an error.
func (t RateTable) normalize() (RateTable, error) {
	result := make(RateTable, len(t))
	for provider, models := range t {
		key := NormalizeProvider(provider)
		if result[key] == nil {
			result[key] = make(map[string]RateEntry, len(models))
		}
		for id, rate := range models {
			if _, exists := result[key][id]; exists {
				return nil, fmt.Errorf("%w: %s:%s", ErrDuplicateRate, key, id)
			}
			result[key][id] = rate.clone()
		}
	}
	return result, nil
}

// StaticRates returns a copy of the built-in rate table
func StaticRates() RateTable {
	return staticRates.Clone()
}

// GetRate looks up a rate in the built-in table
func GetRate(provider, modelID string) (RateEntry, error) {
	return staticRates.Lookup(provider, modelID)
}
