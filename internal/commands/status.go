package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/config"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/output"
	"github.com/ccwindow/ccwindow/internal/window"
)

func NewStatusCommand() *cobra.Command {
	var (
		format       string
		dashboardDir string
		recentEvents int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current rolling-window snapshot",
		Long: `Computes the rolling-window snapshot from the persisted ledger and
renders it. The menu format is xbar-compatible output for a menu-bar
consumer; table and json serve terminals and scripts. A missing or
mid-write ledger file renders as zero usage, never as an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dashboardDir == "" {
				dashboardDir = defaultDashboardDir()
			}

			cfg := config.Load(defaultConfigPath(dashboardDir))
			store := ledger.New(defaultLedgerPath(dashboardDir))

			lgr, _ := store.Load()
			snap := window.Compute(lgr, time.Now(), cfg.Window)

			switch format {
			case "json":
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "table":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderTable(snap, cfg.PlanName))
				if recentEvents > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
					fmt.Fprint(cmd.OutOrStdout(), output.RenderRecentEvents(lgr, recentEvents, time.Local))
				}
			case "menu":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderMenu(snap, cfg.PlanName))
			default:
				return fmt.Errorf("unknown format: %s", format)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "menu", "Output format (menu, table, json)")
	cmd.Flags().StringVar(&dashboardDir, "dashboard-dir", "", "Path to the dashboard state directory")
	cmd.Flags().IntVar(&recentEvents, "recent", 0, "Also list the N most recent events (table format)")

	return cmd
}
