package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRecordUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		jsonData string
		expected CallRecord
	}{
		{
			name:     "success_defaults_to_true",
			jsonData: `{"provider":"openai","model":"gpt-4o","input_tokens":10,"output_tokens":5}`,
			expected: CallRecord{Provider: "openai", Model: "gpt-4o", InputTokens: 10, OutputTokens: 5},
		},
		{
			name:     "explicit_failure",
			jsonData: `{"provider":"claude","model":"claude-3-haiku","input_tokens":1,"output_tokens":2,"success":false}`,
			expected: CallRecord{Provider: "claude", Model: "claude-3-haiku", InputTokens: 1, OutputTokens: 2, Failed: true},
		},
		{
			name:     "caller_and_duration",
			jsonData: `{"provider":"openai","model":"o3","input_tokens":0,"output_tokens":0,"caller":"summarize","duration_ms":1500}`,
			expected: CallRecord{Provider: "openai", Model: "o3", Caller: "summarize", DurationMs: 1500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec CallRecord
			require.NoError(t, sonic.Unmarshal([]byte(tt.jsonData), &rec))
			assert.Equal(t, tt.expected, rec)
		})
	}
}

func TestCallRecordUnmarshalJSONInvalid(t *testing.T) {
	var rec CallRecord
	err := sonic.Unmarshal([]byte(`{"provider": 12}`), &rec)
	assert.Error(t, err)
}

func TestNewCallRecord(t *testing.T) {
	rec := NewCallRecord(ProviderOpenAI, ModelGPT4o, 100, 50)

	assert.True(t, rec.Succeeded())
	assert.Equal(t, 150, rec.TotalTokens())
	assert.Equal(t, StatusSuccess, rec.Status())
	assert.Equal(t, "Unknown", rec.CallerOrDefault())
	assert.Zero(t, rec.Duration())
}

func TestCallRecordHelpers(t *testing.T) {
	rec := CallRecord{Caller: "chat", DurationMs: 2500, Failed: true}

	assert.Equal(t, StatusFailed, rec.Status())
	assert.Equal(t, "chat", rec.CallerOrDefault())
	assert.Equal(t, 2500*time.Millisecond, rec.Duration())

	rec.DurationMs = -3
	assert.Zero(t, rec.Duration())
}

func TestCallRecordZeroValueIsSuccessful(t *testing.T) {
	rec := CallRecord{Provider: ProviderOpenAI, Model: ModelGPT4o}

	assert.True(t, rec.Succeeded())
	assert.Equal(t, StatusSuccess, rec.Status())
}

func TestCallRecordMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		record   CallRecord
		contains string
	}{
		{name: "zero_value_writes_success", record: CallRecord{Provider: "openai", Model: "gpt-4o"}, contains: `"success":true`},
		{name: "failed_writes_false", record: CallRecord{Provider: "openai", Model: "gpt-4o", Failed: true}, contains: `"success":false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := sonic.Marshal(tt.record)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
			assert.NotContains(t, string(data), "Failed")

			var decoded CallRecord
			require.NoError(t, sonic.Unmarshal(data, &decoded))
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestCostBreakdownIsZero(t *testing.T) {
	assert.True(t, CostBreakdown{}.IsZero())
	assert.False(t, CostBreakdown{InputCost: 0.1, TotalCost: 0.1}.IsZero())
}
