package pricing

// DefaultProvider implements RateProvider using the built-in rate table
type DefaultProvider struct{}

// NewDefaultProvider creates a new default rate provider
func NewDefaultProvider() RateProvider {
	return &DefaultProvider{}
}

// Lookup returns the built-in rate for a provider/model pair
func (p *DefaultProvider) Lookup(provider, modelID string) (RateEntry, error) {
	return staticRates.Lookup(provider, modelID)
}

// All returns a copy of the built-in table
func (p *DefaultProvider) All() RateTable {
	return staticRates.Clone()
}

// Name returns the name of this rate provider
func (p *DefaultProvider) Name() string {
	return SourceDefault
}
