// Package tokens provides a heuristic token estimate for raw text.
//
// The estimate is NOT a tokenizer: it is a deliberate over-estimate meant for
// rough cost warnings, and must never be used for billing-grade counts.
package tokens

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
)

const (
	// WordsPerToken is the assumed ratio of words to tokens
	WordsPerToken = 0.75
	// CharsPerToken is the assumed number of characters per token
	CharsPerToken = 4
)

// Estimate returns max(ceil(words/0.75), ceil(chars/4)) for text.
// Words are whitespace-delimited runs; characters are Unicode code points.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	words := len(strings.Fields(text))
	chars := utf8.RuneCountInString(text)

	wordBased := int(math.Ceil(float64(words) / WordsPerToken))
	charBased := int(math.Ceil(float64(chars) / CharsPerToken))

	return max(wordBased, charBased)
}

// EstimateAny estimates tokens for loosely typed input; anything that is not a
// string (or pointer to one) yields 0.
func EstimateAny(v any) int {
	switch s := v.(type) {
	case string:
		return Estimate(s)
	case *string:
		if s == nil {
			return 0
		}
		return Estimate(*s)
	case []byte:
		return Estimate(string(s))
	default:
		return 0
	}
}

// Estimation is a pre-flight cost estimate for a prompt
type Estimation struct {
	InputTokens  int                 `json:"input_tokens"`
	OutputTokens int                 `json:"output_tokens"`
	Breakdown    model.CostBreakdown `json:"breakdown"`
}

// EstimateCost estimates prompt tokens and prices them together with the
// expected output token count.
func EstimateCost(calc *pricing.Calculator, provider, modelID, prompt string, outputTokens int) (Estimation, error) {
	est := Estimation{
		InputTokens:  Estimate(prompt),
		OutputTokens: max(outputTokens, 0),
	}

	breakdown, err := calc.Calculate(provider, modelID, est.InputTokens, est.OutputTokens)
	if err != nil {
		return est, err
	}
	est.Breakdown = breakdown
	return est, nil
}
