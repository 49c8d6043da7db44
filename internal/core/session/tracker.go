// Package session accumulates the cost of tracked API calls.
//
// A Tracker owns one session: a (calls, cost) counter pair that only grows
// between resets. Successful priced calls add to it; failed calls are priced
// and reported but never billed; unknown models leave it untouched.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/monitoring"
)

// Tracker prices calls and accumulates session totals. Safe for concurrent use.
type Tracker struct {
	calc      *pricing.Calculator
	reporters []Reporter
	metrics   *monitoring.Metrics
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	state model.SessionSummary
}

// Option configures a Tracker
type Option func(*Tracker)

// WithReporter adds a reporter notified of every tracked call and reset
func WithReporter(r Reporter) Option {
	return func(t *Tracker) {
		t.reporters = append(t.reporters, r)
	}
}

// WithMetrics records tracked calls on m
func WithMetrics(m *monitoring.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// WithClock overrides the time source used for TrackedAt
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker pricing calls against rates (nil means the
// built-in table). Without a WithReporter option, calls are reported to the
// global logger.
func NewTracker(rates pricing.RateProvider, opts ...Option) *Tracker {
	t := &Tracker{
		calc:  pricing.NewCalculator(rates),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	if len(t.reporters) == 0 {
		t.reporters = []Reporter{NewLogReporter(nil)}
	}
	return t
}

// Calculator returns the calculator the tracker prices calls with
func (t *Tracker) Calculator() *pricing.Calculator {
	return t.calc
}

// Track prices rec and, if it succeeded, adds it to the session.
// Unknown models return nil and *pricing.UnknownModelError without touching the session.
func (t *Tracker) Track(rec model.CallRecord) (*model.TrackResult, error) {
	rate, err := t.calc.Rates().Lookup(rec.Provider, rec.Model)
	if err != nil {
		if unknown, ok := pricing.AsUnknownModel(err); ok {
			t.metrics.RecordUnknownModel(pricing.NormalizeProvider(rec.Provider), rec.Model)
			for _, r := range t.reporters {
				r.ReportUnknownModel(rec, unknown)
			}
		}
		return nil, err
	}

	breakdown := pricing.Apply(rate, rec.InputTokens, rec.OutputTokens)
	provider := pricing.NormalizeProvider(rec.Provider)

	t.mu.Lock()
	if rec.Succeeded() {
		t.state.TotalCost += breakdown.TotalCost
		t.state.TotalCalls++
	}
	snapshot := t.state
	t.metrics.UpdateSession(snapshot.TotalCalls, snapshot.TotalCost)
	t.mu.Unlock()

	t.metrics.RecordCall(provider, rec.Model, rec.Status(), rec.Succeeded(),
		rec.InputTokens, rec.OutputTokens, breakdown.TotalCost, rec.Duration())

	result := &model.TrackResult{
		CallID:          t.newID(),
		Record:          rec,
		Breakdown:       breakdown,
		InputUnitPrice:  rate.InputUnitPrice(),
		OutputUnitPrice: rate.OutputUnitPrice(),
		Session:         snapshot,
		TrackedAt:       t.now(),
	}

	for _, r := range t.reporters {
		r.ReportCall(result)
	}
	return result, nil
}

// TrackCost is Track reduced to the breakdown; nil means the model was unknown
func (t *Tracker) TrackCost(rec model.CallRecord) *model.CostBreakdown {
	result, err := t.Track(rec)
	if err != nil {
		return nil
	}
	return &result.Breakdown
}

// Summary returns a snapshot of the session totals
func (t *Tracker) Summary() model.SessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset zeroes the session totals
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.state = model.SessionSummary{}
	t.metrics.RecordReset()
	t.mu.Unlock()

	for _, r := range t.reporters {
		r.ReportReset()
	}
}
