package window

import (
	"math"
	"time"

	"github.com/ccwindow/ccwindow/internal/types"
)

// DefaultCostPerToken is the blended USD-per-token rate used to derive
// a token ceiling when the active set is empty (no observed mix yet).
// Hard-coded on purpose; see DESIGN.md.
const DefaultCostPerToken = 6e-6

// ActiveEvents returns the ledger events inside the trailing window,
// sorted by timestamp.
func ActiveEvents(ledger *types.TokenLedger, now time.Time, windowHours int) []types.UsageEvent {
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	var active []types.UsageEvent
	for _, event := range ledger.SortedEvents() {
		if event.Timestamp.After(cutoff) {
			active = append(active, event)
		}
	}
	return active
}

// Compute derives a WindowSnapshot from a ledger snapshot. Pure with
// respect to its inputs; the derived token limit is recomputed on every
// call so it tracks the actual model mix.
func Compute(ledger *types.TokenLedger, now time.Time, cfg types.WindowConfig) types.WindowSnapshot {
	snap := types.WindowSnapshot{
		CostLimit:    cfg.CostLimit,
		MessageLimit: cfg.MessageLimit,
		WindowHours:  cfg.WindowHours,
	}

	active := ActiveEvents(ledger, now, cfg.WindowHours)

	for _, event := range active {
		snap.TokensUsed += event.TotalTokens
		snap.CostUsed += event.CostUSD
	}
	snap.MessagesUsed = len(active)

	// Effective token limit from the observed cost-per-token of the
	// active set: the same dollar budget buys fewer tokens on an
	// expensive mix, and the ceiling must reflect that immediately.
	costPerToken := DefaultCostPerToken
	if snap.TokensUsed > 0 && snap.CostUsed > 0 {
		costPerToken = snap.CostUsed / float64(snap.TokensUsed)
	}
	if cfg.CostLimit > 0 && costPerToken > 0 {
		snap.TokenLimit = int(math.Round(cfg.CostLimit / costPerToken))
	}

	snap.PctTokens = pctOf(float64(snap.TokensUsed), float64(snap.TokenLimit))
	snap.PctCost = pctOf(snap.CostUsed, cfg.CostLimit)
	snap.PctMessages = pctOf(float64(snap.MessagesUsed), float64(cfg.MessageLimit))
	snap.Severity = types.SeverityForPct(snap.MaxPct())

	windowDur := time.Duration(cfg.WindowHours) * time.Hour
	if len(active) > 0 {
		oldest := active[0]
		newest := active[len(active)-1]

		snap.RechargeSeconds = clampSeconds(oldest.Timestamp.Add(windowDur).Sub(now))
		snap.RechargeTokens = oldest.TotalTokens
		snap.RechargeCost = oldest.CostUSD
		snap.FullClearSeconds = clampSeconds(newest.Timestamp.Add(windowDur).Sub(now))
	}

	return snap
}

// BurnRate is the consumption velocity over the active set.
type BurnRate struct {
	TokensPerMinute float64
	CostPerHour     float64
}

// Burn computes the burn rate across the active set. Nil when the set
// spans no measurable duration.
func Burn(active []types.UsageEvent) *BurnRate {
	if len(active) < 2 {
		return nil
	}

	first := active[0]
	last := active[len(active)-1]
	minutes := last.Timestamp.Sub(first.Timestamp).Minutes()
	if minutes <= 0 {
		return nil
	}

	var tokens int
	var cost float64
	for _, event := range active {
		tokens += event.TotalTokens
		cost += event.CostUSD
	}

	return &BurnRate{
		TokensPerMinute: float64(tokens) / minutes,
		CostPerHour:     cost / minutes * 60,
	}
}

// pctOf defines percentages against a non-positive limit as zero so a
// zero or absent cap can never divide-fault the display path.
func pctOf(used, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return used / limit * 100
}

// clampSeconds floors clock-skew negatives to zero; a countdown is
// never negative.
func clampSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}
