package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New(true)
	assert.NotNil(t, m)
	assert.True(t, m.enabled)
	assert.NotNil(t, m.Registry())

	m2 := New(false)
	assert.False(t, m2.enabled)
}

func TestRecordCall_Success(t *testing.T) {
	m := New(true)

	m.RecordCall("OPENAI", "gpt-4o", "success", true, 1000, 500, 0.0075, 2*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallsTotal.WithLabelValues("OPENAI", "gpt-4o", "success")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.TokensTotal.WithLabelValues("OPENAI", "gpt-4o", "input")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.TokensTotal.WithLabelValues("OPENAI", "gpt-4o", "output")))
	assert.Equal(t, 0.0075, testutil.ToFloat64(m.CostTotal.WithLabelValues("OPENAI", "gpt-4o")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallDuration))
}

func TestRecordCall_FailedIsNotBilled(t *testing.T) {
	m := New(true)

	m.RecordCall("CLAUDE", "claude-3-haiku", "failed", false, 1000, 500, 0.5, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallsTotal.WithLabelValues("CLAUDE", "claude-3-haiku", "failed")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.CostTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(m.TokensTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(m.CallDuration))
}

func TestRecordCall_Disabled(t *testing.T) {
	m := New(false)

	m.RecordCall("OPENAI", "gpt-4o", "success", true, 1, 1, 1, time.Second)
	m.RecordUnknownModel("OPENAI", "x")
	m.UpdateSession(3, 1.5)
	m.RecordReset()

	assert.Equal(t, 0, testutil.CollectAndCount(m.CallsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(m.UnknownModelTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionCalls))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionResets))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCall("OPENAI", "gpt-4o", "success", true, 1, 1, 1, time.Second)
		m.RecordUnknownModel("OPENAI", "x")
		m.UpdateSession(1, 1)
		m.RecordReset()
	})
}

func TestSessionGauges(t *testing.T) {
	m := New(true)

	m.UpdateSession(4, 2.25)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.SessionCalls))
	assert.Equal(t, 2.25, testutil.ToFloat64(m.SessionCost))

	m.RecordReset()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionCalls))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionCost))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionResets))
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.RecordUnknownModel("OPENAI", "gpt-x")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `api_cost_tracker_unknown_model_total{model="gpt-x",provider="OPENAI"} 1`)
}
