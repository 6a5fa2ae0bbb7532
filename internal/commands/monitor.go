package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/config"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/monitor"
)

func NewMonitorCommand() *cobra.Command {
	var (
		dashboardDir string
		interval     time.Duration
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Live rolling-window monitor",
		Long:  `Full-screen terminal view of the rolling window, refreshed continuously.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dashboardDir == "" {
				dashboardDir = defaultDashboardDir()
			}

			cfg := config.Load(defaultConfigPath(dashboardDir))
			store := ledger.New(defaultLedgerPath(dashboardDir))

			return monitor.Run(monitor.Options{
				Store:           store,
				Config:          cfg,
				RefreshInterval: interval,
				NoColor:         noColor,
			})
		},
	}

	cmd.Flags().StringVar(&dashboardDir, "dashboard-dir", "", "Path to the dashboard state directory")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Refresh interval")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
