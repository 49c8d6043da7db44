package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

// SessionCollector gathers tracked calls into a SessionReport
type SessionCollector struct {
	models  map[string]*ModelDetail
	unknown int
}

// NewSessionCollector creates an empty collector
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{models: make(map[string]*ModelDetail)}
}

// Add accumulates a tracked call
func (c *SessionCollector) Add(result *model.TrackResult) {
	rec := result.Record
	provider := pricing.NormalizeProvider(rec.Provider)
	key := provider + ":" + rec.Model

	detail, ok := c.models[key]
	if !ok {
		detail = &ModelDetail{Provider: provider, Model: rec.Model}
		c.models[key] = detail
	}

	if rec.Failed {
		detail.FailedCalls++
		return
	}
	detail.Calls++
	detail.InputTokens += rec.InputTokens
	detail.OutputTokens += rec.OutputTokens
	detail.TotalTokens += rec.TotalTokens()
	detail.Cost += result.Breakdown.TotalCost
}

// AddUnknown counts a call that could not be priced
func (c *SessionCollector) AddUnknown() {
	c.unknown++
}

// Report builds the report for the given session totals, models ordered by cost
func (c *SessionCollector) Report(summary model.SessionSummary) SessionReport {
	models := make([]ModelDetail, 0, len(c.models))
	for _, detail := range c.models {
		models = append(models, *detail)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Cost != models[j].Cost {
			return models[i].Cost > models[j].Cost
		}
		if models[i].Provider != models[j].Provider {
			return models[i].Provider < models[j].Provider
		}
		return models[i].Model < models[j].Model
	})

	return SessionReport{
		Summary:      summary,
		Models:       models,
		UnknownCalls: c.unknown,
	}
}

// SummaryFormatter is responsible for formatting and outputting session summaries.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

// Format writes the session totals followed by a per-model breakdown.
func (f *SummaryFormatter) Format(report SessionReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %d calls, %s total (%s)\n",
		report.Summary.TotalCalls,
		util.FormatUSD(report.Summary.TotalCost, 6),
		util.FormatCurrency(report.Summary.TotalCost))

	for _, detail := range report.Models {
		line := fmt.Sprintf("  %s:%s  %d calls, %s tokens, %s",
			detail.Provider, detail.Model, detail.Calls,
			util.FormatNumber(detail.TotalTokens), util.FormatUSD(detail.Cost, 6))
		if detail.FailedCalls > 0 {
			line += fmt.Sprintf(" (%d failed, not billed)", detail.FailedCalls)
		}
		b.WriteString(line + "\n")
	}

	if report.UnknownCalls > 0 {
		fmt.Fprintf(&b, "  %d calls skipped: unknown model\n", report.UnknownCalls)
	}

	_, err := io.WriteString(f.w, b.String())
	return err
}
