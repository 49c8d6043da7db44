package formatter

import (
	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
)

// RateRow is one rate table line prepared for display
type RateRow struct {
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Input       float64  `json:"input_per_million"`
	Output      float64  `json:"output_per_million"`
	CachedInput *float64 `json:"cached_input_per_million,omitempty"`
}

// RateRows flattens a rate table, sorted by provider then model.
// A non-empty provider limits the rows to that provider.
func RateRows(rates pricing.RateTable, provider string) []RateRow {
	var rows []RateRow
	filter := pricing.NormalizeProvider(provider)

	for _, p := range rates.Providers() {
		if filter != "" && p != filter {
			continue
		}
		for _, id := range rates.Models(p) {
			rate := rates[p][id]
			rows = append(rows, RateRow{
				Provider:    p,
				Model:       id,
				Input:       rate.InputPerMillion,
				Output:      rate.OutputPerMillion,
				CachedInput: rate.CachedInputPerMillion,
			})
		}
	}
	return rows
}

// ModelDetail aggregates the tracked calls of one provider/model pair
type ModelDetail struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Calls        int     `json:"calls"`
	FailedCalls  int     `json:"failed_calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Cost         float64 `json:"cost"`
}

// SessionReport is the end-of-run view of a session
type SessionReport struct {
	Summary      model.SessionSummary `json:"summary"`
	Models       []ModelDetail        `json:"models"`
	UnknownCalls int                  `json:"unknown_calls"`
}
