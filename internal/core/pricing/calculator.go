package pricing

import "github.com/penwyp/go-api-cost-tracker/internal/core/model"

// Calculator prices token usage against a rate provider
type Calculator struct {
	rates RateProvider
}

// NewCalculator creates a calculator over the given rates; nil means the built-in table
func NewCalculator(rates RateProvider) *Calculator {
	if rates == nil {
		rates = NewDefaultProvider()
	}
	return &Calculator{rates: rates}
}

// Rates returns the provider backing this calculator
func (c *Calculator) Rates() RateProvider {
	return c.rates
}

// Calculate prices a call. For an unknown provider/model pair it returns a
// zero breakdown and *UnknownModelError; check the error before using the breakdown.
func (c *Calculator) Calculate(provider, modelID string, inputTokens, outputTokens int) (model.CostBreakdown, error) {
	rate, err := c.rates.Lookup(provider, modelID)
	if err != nil {
		return model.CostBreakdown{}, err
	}
	return Apply(rate, inputTokens, outputTokens), nil
}

// CalculateOrZero is Calculate with the error discarded
func (c *Calculator) CalculateOrZero(provider, modelID string, inputTokens, outputTokens int) model.CostBreakdown {
	breakdown, _ := c.Calculate(provider, modelID, inputTokens, outputTokens)
	return breakdown
}

// Apply prices token counts against a single rate. Negative counts are treated as zero.
func Apply(rate RateEntry, inputTokens, outputTokens int) model.CostBreakdown {
	inputCost := float64(max(inputTokens, 0)) / model.TokensPerMillion * rate.InputPerMillion
	outputCost := float64(max(outputTokens, 0)) / model.TokensPerMillion * rate.OutputPerMillion
	return model.CostBreakdown{
		InputCost:  inputCost,
		OutputCost: outputCost,
		TotalCost:  inputCost + outputCost,
	}
}

var defaultCalculator = NewCalculator(nil)

// CalculateCost prices a call against the built-in rate table
func CalculateCost(provider, modelID string, inputTokens, outputTokens int) (model.CostBreakdown, error) {
	return defaultCalculator.Calculate(provider, modelID, inputTokens, outputTokens)
}
