package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ccwindow/ccwindow/internal/types"
)

// RenderTable formats a snapshot as a terminal table: one row per
// limit dimension plus the recharge schedule underneath.
func RenderTable(snap types.WindowSnapshot, planName string) string {
	var out strings.Builder

	fmt.Fprintf(&out, "\nClaude Code Rolling Window · %s (%dh)\n\n", planName, snap.WindowHours)

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{"Dimension", "Used", "Limit", "Pct"})

	table.Append([]string{
		"Tokens",
		formatNumberWithCommas(snap.TokensUsed),
		formatNumberWithCommas(snap.TokenLimit),
		fmt.Sprintf("%.1f%%", snap.PctTokens),
	})
	table.Append([]string{
		"Cost (USD)",
		fmt.Sprintf("$%.2f", snap.CostUsed),
		fmt.Sprintf("$%.2f", snap.CostLimit),
		fmt.Sprintf("%.1f%%", snap.PctCost),
	})
	table.Append([]string{
		"Messages",
		formatNumberWithCommas(snap.MessagesUsed),
		formatNumberWithCommas(snap.MessageLimit),
		fmt.Sprintf("%.1f%%", snap.PctMessages),
	})

	table.Render()
	out.Write(buf.Bytes())

	fmt.Fprintf(&out, "\nSeverity: %s\n", snap.Severity)
	if snap.RechargeSeconds > 0 {
		fmt.Fprintf(&out, "Next recharge: +%s ($%.4f) in %s\n",
			FormatTokens(snap.RechargeTokens), snap.RechargeCost, FormatCountdown(snap.RechargeSeconds))
		fmt.Fprintf(&out, "Full clear:    %s\n", FormatCountdown(snap.FullClearSeconds))
	} else {
		out.WriteString("Window empty, fully recharged\n")
	}

	return out.String()
}

// RenderRecentEvents formats the newest events of a ledger, newest
// last, for quick inspection.
func RenderRecentEvents(ledger *types.TokenLedger, limit int, loc *time.Location) string {
	events := ledger.SortedEvents()
	if len(events) == 0 {
		return "No usage recorded.\n"
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	if loc == nil {
		loc = time.Local
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{"Time", "Model", "Tokens", "Cost (USD)"})
	for _, event := range events {
		table.Append([]string{
			event.Timestamp.In(loc).Format("15:04:05"),
			event.Model,
			formatNumberWithCommas(event.TotalTokens),
			fmt.Sprintf("$%.4f", event.CostUSD),
		})
	}
	table.Render()

	return buf.String()
}
