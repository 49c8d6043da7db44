package session

import (
	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

// Reporter receives tracker events for display or logging
type Reporter interface {
	ReportCall(result *model.TrackResult)
	ReportUnknownModel(rec model.CallRecord, err *pricing.UnknownModelError)
	ReportReset()
}

// LogReporter writes tracker events as structured log entries
type LogReporter struct {
	logger util.LoggerInterface
}

// NewLogReporter creates a reporter for logger; nil uses the global logger
func NewLogReporter(logger util.LoggerInterface) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) log() util.LoggerInterface {
	if r.logger != nil {
		return r.logger
	}
	return util.GetLogger()
}

// ReportCall logs every reported field of a tracked call
func (r *LogReporter) ReportCall(result *model.TrackResult) {
	logger := r.log()
	if logger == nil {
		return
	}

	rec := result.Record
	fields := []util.Field{
		util.F("call_id", result.CallID),
		util.F("provider", pricing.NormalizeProvider(rec.Provider)),
		util.F("model", rec.Model),
		util.F("caller", rec.CallerOrDefault()),
		util.F("status", rec.Status()),
		util.F("input_tokens", rec.InputTokens),
		util.F("output_tokens", rec.OutputTokens),
		util.F("total_tokens", rec.TotalTokens()),
		util.F("input_unit_price", result.InputUnitPrice),
		util.F("output_unit_price", result.OutputUnitPrice),
		util.F("input_cost", result.Breakdown.InputCost),
		util.F("output_cost", result.Breakdown.OutputCost),
		util.F("total_cost", result.Breakdown.TotalCost),
		util.F("session_calls", result.Session.TotalCalls),
		util.F("session_cost", result.Session.TotalCost),
	}
	if d := rec.Duration(); d > 0 {
		fields = append(fields, util.F("duration", util.FormatSeconds(d)))
	}

	logger.Info("API call cost tracked", fields...)
}

// ReportUnknownModel logs a warning for a call that could not be priced
func (r *LogReporter) ReportUnknownModel(rec model.CallRecord, err *pricing.UnknownModelError) {
	if logger := r.log(); logger != nil {
		logger.Warn("Cost tracking warning: "+err.Error(), util.F("caller", rec.CallerOrDefault()))
	}
}

// ReportReset logs the reset confirmation
func (r *LogReporter) ReportReset() {
	if logger := r.log(); logger != nil {
		logger.Info("Session cost tracking reset")
	}
}
