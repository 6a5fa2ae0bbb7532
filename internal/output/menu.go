package output

import (
	"fmt"
	"strings"

	"github.com/ccwindow/ccwindow/internal/types"
)

// Severity presentation for the menu bar.
const (
	colorNormal   = "#44FF44"
	colorWarning  = "#FFAA00"
	colorCritical = "#FF4444"
	colorMuted    = "#888888"
	colorAccent   = "#66CCFF"
)

func severityIcon(s types.Severity) string {
	if s == types.SeverityCritical {
		return "⚠️"
	}
	return "⚡"
}

func severityColor(s types.Severity) string {
	switch s {
	case types.SeverityCritical:
		return colorCritical
	case types.SeverityWarning:
		return colorWarning
	default:
		return colorNormal
	}
}

// RenderMenu formats a snapshot as xbar menu output: one menu-bar line,
// a separator, then the dropdown. The consumer owns scheduling and
// click actions; this is pure presentation of computed numbers.
func RenderMenu(snap types.WindowSnapshot, planName string) string {
	var b strings.Builder

	icon := severityIcon(snap.Severity)
	color := severityColor(snap.Severity)
	used := FormatTokens(snap.TokensUsed)
	limit := FormatTokens(snap.TokenLimit)

	// Menu bar line.
	if snap.RechargeSeconds > 0 {
		fmt.Fprintf(&b, "%s %s/%s · ⏱ %s | size=13\n", icon, used, limit, FormatCountdownShort(snap.RechargeSeconds))
	} else {
		fmt.Fprintf(&b, "%s %s/%s | size=13\n", icon, used, limit)
	}

	// Dropdown.
	b.WriteString("---\n")
	fmt.Fprintf(&b, "Claude Code Token Monitor · %s | size=13 color=%s\n", planName, colorMuted)
	b.WriteString("---\n")

	pct := snap.MaxPct()
	fmt.Fprintf(&b, "%s %.1f%% | font=Menlo size=11\n", ProgressBar(pct, 20), pct)
	b.WriteString("---\n")

	remaining := snap.TokenLimit - snap.TokensUsed
	if remaining < 0 {
		remaining = 0
	}
	fmt.Fprintf(&b, "Used:      %s tokens | font=Menlo size=12\n", padLeft(formatNumberWithCommas(snap.TokensUsed), 12))
	fmt.Fprintf(&b, "Remaining: %s tokens | font=Menlo size=12 color=%s\n", padLeft(formatNumberWithCommas(remaining), 12), color)
	fmt.Fprintf(&b, "Limit:     %s tokens | font=Menlo size=12\n", padLeft(formatNumberWithCommas(snap.TokenLimit), 12))
	fmt.Fprintf(&b, "Cost:      %s | font=Menlo size=12\n", padLeft(fmt.Sprintf("$%.2f / $%.2f", snap.CostUsed, snap.CostLimit), 12))
	fmt.Fprintf(&b, "Messages:  %s | font=Menlo size=12\n", padLeft(fmt.Sprintf("%d / %d", snap.MessagesUsed, snap.MessageLimit), 12))
	b.WriteString("---\n")

	if snap.RechargeSeconds > 0 {
		fmt.Fprintf(&b, "⏱  Next +%s in %s | color=%s\n", FormatTokens(snap.RechargeTokens), FormatCountdown(snap.RechargeSeconds), colorAccent)
	} else {
		fmt.Fprintf(&b, "✅  No active usage, fully recharged | color=%s\n", colorNormal)
	}
	if snap.FullClearSeconds > 0 {
		fmt.Fprintf(&b, "🔄  Full recharge in %s | color=%s size=11\n", FormatCountdown(snap.FullClearSeconds), colorMuted)
	}
	b.WriteString("---\n")

	fmt.Fprintf(&b, "   Rolling window: %dh | size=11 color=%s\n", snap.WindowHours, colorMuted)
	b.WriteString("---\n")
	b.WriteString("🔃 Refresh | refresh=true\n")

	return b.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
