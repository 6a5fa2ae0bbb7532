package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/config"
	"github.com/ccwindow/ccwindow/internal/extractor"
	"github.com/ccwindow/ccwindow/internal/ingest"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/output"
)

func NewScanCommand() *cobra.Command {
	var (
		dataPath     string
		dashboardDir string
		debug        bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Rebuild the ledger from all session logs",
		Long: `Cold-start backfill: scans every known session log from the first
line, deduplicates across the whole history, and replaces the ledger.
Per-session read cursors are set so the next ingest resumes where the
scan stopped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataPath == "" {
				dataPath = defaultProjectsDir()
			}
			if dashboardDir == "" {
				dashboardDir = defaultDashboardDir()
			}

			cfg := config.Load(defaultConfigPath(dashboardDir))

			store := ledger.New(defaultLedgerPath(dashboardDir))
			store.SetDebug(debug)

			ex := extractor.New(dataPath, cfg.PricingTable())
			ex.SetDebug(debug)

			fmt.Fprintf(cmd.OutOrStdout(), "Scanning sessions (last %dh window)...\n", cfg.Window.WindowHours)

			driver := ingest.New(store, ex, cfg.Window.WindowHours)
			lgr, err := driver.Backfill()
			if err != nil {
				return fmt.Errorf("failed to persist ledger: %w", err)
			}

			var totalTokens int
			for _, event := range lgr.Events {
				totalTokens += event.TotalTokens
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d events across %d sessions, %s tokens\n",
				len(lgr.Events), len(lgr.SessionOffsets), output.FormatTokens(totalTokens))

			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the Claude projects directory")
	cmd.Flags().StringVar(&dashboardDir, "dashboard-dir", "", "Path to the dashboard state directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print debug traces to stderr")

	return cmd
}
