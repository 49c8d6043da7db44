package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
)

var csvHeaders = []string{
	"Call ID", "Provider", "Model", "Caller", "Status", "Input", "Output",
	"Total Tokens", "Input Cost", "Output Cost", "Total Cost", "Duration (ms)",
}

// CSVFormatter writes tracked calls as CSV rows
type CSVFormatter struct {
	w *csv.Writer
}

// NewCSVFormatter creates a CSV formatter writing to w
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column names
func (f *CSVFormatter) WriteHeader() error {
	return f.w.Write(csvHeaders)
}

// Write writes one tracked call. Costs are unrounded.
func (f *CSVFormatter) Write(result *model.TrackResult) error {
	rec := result.Record
	return f.w.Write([]string{
		result.CallID,
		pricing.NormalizeProvider(rec.Provider),
		rec.Model,
		rec.Caller,
		rec.Status(),
		strconv.Itoa(rec.InputTokens),
		strconv.Itoa(rec.OutputTokens),
		strconv.Itoa(rec.TotalTokens()),
		strconv.FormatFloat(result.Breakdown.InputCost, 'f', -1, 64),
		strconv.FormatFloat(result.Breakdown.OutputCost, 'f', -1, 64),
		strconv.FormatFloat(result.Breakdown.TotalCost, 'f', -1, 64),
		strconv.FormatInt(rec.DurationMs, 10),
	})
}

// Flush flushes buffered rows and reports any write error
func (f *CSVFormatter) Flush() error {
	f.w.Flush()
	return f.w.Error()
}
