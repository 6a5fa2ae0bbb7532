package monitor

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"

	"github.com/ccwindow/ccwindow/internal/config"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/output"
	"github.com/ccwindow/ccwindow/internal/types"
	"github.com/ccwindow/ccwindow/internal/window"
)

// Options configures the live monitor.
type Options struct {
	Store           *ledger.Store
	Config          *config.Config
	RefreshInterval time.Duration
	NoColor         bool
}

// Run starts the live terminal monitor and blocks until quit.
func Run(opts Options) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("live monitor requires a terminal; use the status command for scripted output")
	}

	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Second
	}

	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tickMsg time.Time

type model struct {
	opts       Options
	snap       types.WindowSnapshot
	burn       *window.BurnRate
	degraded   bool
	lastUpdate time.Time
	width      int
	quitting   bool
}

func newModel(opts Options) model {
	m := model{opts: opts}
	m.refresh()
	return m
}

// refresh reloads the ledger and recomputes the snapshot. A degraded
// load (missing or mid-write file) keeps the display alive with zeros;
// the next successful read self-corrects.
func (m *model) refresh() {
	lgr, degraded := m.opts.Store.Load()
	now := time.Now()

	m.snap = window.Compute(lgr, now, m.opts.Config.Window)
	m.burn = window.Burn(window.ActiveEvents(lgr, now, m.opts.Config.Window.WindowHours))
	m.degraded = degraded
	m.lastUpdate = now
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.opts.RefreshInterval),
		tea.WindowSize(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.refresh()
		return m, tickCmd(m.opts.RefreshInterval)
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1).
		MarginBottom(1)

	if m.opts.NoColor {
		headerStyle = lipgloss.NewStyle()
		boxStyle = lipgloss.NewStyle()
	}

	content := headerStyle.Render(fmt.Sprintf("Claude Code Rolling Window · %s", m.opts.Config.PlanName))
	content += "\n\n"

	pct := m.snap.MaxPct()
	bar := output.ProgressBar(pct, 40)
	if !m.opts.NoColor {
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color(gradientHex(pct))).Render(bar)
	}
	content += fmt.Sprintf("%s %.1f%%\n\n", bar, pct)

	summary := fmt.Sprintf(
		"Tokens:   %s / %s\nCost:     $%.2f / $%.2f\nMessages: %d / %d\nSeverity: %s",
		output.FormatTokens(m.snap.TokensUsed),
		output.FormatTokens(m.snap.TokenLimit),
		m.snap.CostUsed,
		m.snap.CostLimit,
		m.snap.MessagesUsed,
		m.snap.MessageLimit,
		m.snap.Severity,
	)
	content += boxStyle.Render(summary)
	content += "\n\n"

	if m.snap.RechargeSeconds > 0 {
		content += fmt.Sprintf("⏱  Next +%s in %s\n",
			output.FormatTokens(m.snap.RechargeTokens),
			output.FormatCountdown(m.snap.RechargeSeconds))
		content += fmt.Sprintf("🔄 Full recharge in %s\n",
			output.FormatCountdown(m.snap.FullClearSeconds))
	} else {
		content += "✅ No active usage, fully recharged\n"
	}

	if m.burn != nil {
		content += fmt.Sprintf("🔥 %.0f tok/min · $%.2f/h\n", m.burn.TokensPerMinute, m.burn.CostPerHour)
	}

	if m.degraded {
		content += "\n(ledger unreadable, showing defaults until the next write settles)\n"
	}

	content += fmt.Sprintf("\nLast update: %s", m.lastUpdate.Format("15:04:05"))
	content += "\n\nPress 'q' to quit, 'r' to refresh"
	return content
}

// gradientHex blends green to red across 0..100% for the usage bar.
func gradientHex(pct float64) string {
	t := pct / 100
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	start, _ := colorful.Hex("#44ff44")
	end, _ := colorful.Hex("#ff4444")
	return start.BlendLuv(end, t).Clamped().Hex()
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
