package model

import (
	"time"

	"github.com/bytedance/sonic"
)

// CallRecord describes one API call to be priced and tracked.
// The zero value is a successful call; set Failed for calls that must not be billed.
// On the wire the flag is the "success" field, true when absent.
type CallRecord struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	Caller       string
	DurationMs   int64
	Failed       bool
}

// callRecordJSON is the JSONL shape of a CallRecord
type callRecordJSON struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Caller       string `json:"caller,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	Success      *bool  `json:"success,omitempty"`
}

// NewCallRecord creates a successful call record with no caller and no duration
func NewCallRecord(provider, modelID string, inputTokens, outputTokens int) CallRecord {
	return CallRecord{
		Provider:     provider,
		Model:        modelID,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
}

// Succeeded reports whether the call should be billed
func (r CallRecord) Succeeded() bool {
	return !r.Failed
}

// MarshalJSON always writes the "success" field
func (r CallRecord) MarshalJSON() ([]byte, error) {
	success := r.Succeeded()
	return sonic.Marshal(callRecordJSON{
		Provider:     r.Provider,
		Model:        r.Model,
		InputTokens:  r.InputTokens,
		OutputTokens: r.OutputTokens,
		Caller:       r.Caller,
		DurationMs:   r.DurationMs,
		Success:      &success,
	})
}

// UnmarshalJSON decodes a call record, treating a missing "success" field as true.
func (r *CallRecord) UnmarshalJSON(data []byte) error {
	var aux callRecordJSON
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = CallRecord{
		Provider:     aux.Provider,
		Model:        aux.Model,
		InputTokens:  aux.InputTokens,
		OutputTokens: aux.OutputTokens,
		Caller:       aux.Caller,
		DurationMs:   aux.DurationMs,
		Failed:       aux.Success != nil && !*aux.Success,
	}
	return nil
}

// TotalTokens returns input plus output tokens
func (r CallRecord) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Duration returns the call duration, zero when not reported
func (r CallRecord) Duration() time.Duration {
	if r.DurationMs <= 0 {
		return 0
	}
	return time.Duration(r.DurationMs) * time.Millisecond
}

// Status returns the status label used in reports and metrics
func (r CallRecord) Status() string {
	if r.Succeeded() {
		return StatusSuccess
	}
	return StatusFailed
}

// CallerOrDefault returns the caller label, or "Unknown" when none was supplied
func (r CallRecord) CallerOrDefault() string {
	if r.Caller == "" {
		return "Unknown"
	}
	return r.Caller
}

// CostBreakdown is the priced result of a call.
// TotalCost is always InputCost + OutputCost, unrounded.
type CostBreakdown struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// IsZero reports whether every field of the breakdown is zero
func (b CostBreakdown) IsZero() bool {
	return b.InputCost == 0 && b.OutputCost == 0 && b.TotalCost == 0
}

// SessionSummary is a read-only snapshot of the session accumulator
type SessionSummary struct {
	TotalCalls int     `json:"total_calls"`
	TotalCost  float64 `json:"total_cost"`
}

// TrackResult is what the tracker hands back for a priced call
type TrackResult struct {
	CallID          string         `json:"call_id"`
	Record          CallRecord     `json:"record"`
	Breakdown       CostBreakdown  `json:"breakdown"`
	InputUnitPrice  float64        `json:"input_unit_price"`  // USD per token
	OutputUnitPrice float64        `json:"output_unit_price"` // USD per token
	Session         SessionSummary `json:"session"`
	TrackedAt       time.Time      `json:"tracked_at"`
}
