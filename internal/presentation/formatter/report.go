package formatter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

const reportRule = "═══════════════════════════════════════════════════════"

// CallReporter renders each tracked call as a human-readable block on a writer
type CallReporter struct {
	w     io.Writer
	color bool
	mu    sync.Mutex
}

// NewCallReporter creates a reporter writing to w; color is enabled only for terminals
func NewCallReporter(w io.Writer) *CallReporter {
	return &CallReporter{w: w, color: util.IsTerminal(w)}
}

// FormatCallReport renders a tracked call
func FormatCallReport(result *model.TrackResult, color bool) string {
	rec := result.Record
	var b strings.Builder

	statusIcon := "✅"
	if rec.Failed {
		statusIcon = "❌"
	}

	fmt.Fprintf(&b, "\n💰 %s\n", util.Colorize("═════════════════ API COST TRACKING ═════════════════", util.ColorCyan, color))
	fmt.Fprintf(&b, "%s %s API Call - %s\n", statusIcon, pricing.NormalizeProvider(rec.Provider), rec.CallerOrDefault())
	fmt.Fprintf(&b, "🤖 Model: %s\n", rec.Model)
	fmt.Fprintf(&b, "📊 Tokens: %s input + %s output = %s total\n",
		util.FormatInteger(rec.InputTokens), util.FormatInteger(rec.OutputTokens), util.FormatInteger(rec.TotalTokens()))
	fmt.Fprintf(&b, "💵 Cost Breakdown:\n")
	fmt.Fprintf(&b, "   • Input:  %s (%s × %s/token)\n",
		util.FormatUSD(result.Breakdown.InputCost, 6), util.FormatInteger(rec.InputTokens), util.FormatUSD(result.InputUnitPrice, 8))
	fmt.Fprintf(&b, "   • Output: %s (%s × %s/token)\n",
		util.FormatUSD(result.Breakdown.OutputCost, 6), util.FormatInteger(rec.OutputTokens), util.FormatUSD(result.OutputUnitPrice, 8))
	fmt.Fprintf(&b, "   • Total:  %s\n", util.Colorize(util.FormatUSD(result.Breakdown.TotalCost, 6), util.ColorBold, color))

	if d := rec.Duration(); d > 0 {
		fmt.Fprintf(&b, "⏱️ Duration: %s\n", util.FormatSeconds(d))
	}

	fmt.Fprintf(&b, "📈 Session Summary: %d calls, %s total\n",
		result.Session.TotalCalls, util.FormatUSD(result.Session.TotalCost, 6))
	fmt.Fprintf(&b, "%s\n", reportRule)

	return b.String()
}

// ReportCall writes the call block
func (r *CallReporter) ReportCall(result *model.TrackResult) {
	r.write(FormatCallReport(result, r.color))
}

// ReportUnknownModel writes a one-line warning
func (r *CallReporter) ReportUnknownModel(_ model.CallRecord, err *pricing.UnknownModelError) {
	r.write(util.Colorize("💰 Cost Tracking Warning: "+err.Error(), util.ColorYellow, r.color) + "\n")
}

// ReportReset writes the reset confirmation
func (r *CallReporter) ReportReset() {
	r.write("💰 Session cost tracking reset\n")
}

func (r *CallReporter) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.w, s); err != nil {
		util.LogDebugf("Failed to write call report: %v", err)
	}
}
