package pricing

// RateProvider defines the interface for looking up model rates
type RateProvider interface {
	// Lookup returns the rate for a provider/model pair, or *UnknownModelError
	Lookup(provider, modelID string) (RateEntry, error)

	// All returns a copy of every rate the provider knows
	All() RateTable

	// Name returns the name of this rate provider
	Name() string
}
