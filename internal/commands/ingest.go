package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/config"
	"github.com/ccwindow/ccwindow/internal/extractor"
	"github.com/ccwindow/ccwindow/internal/ingest"
	"github.com/ccwindow/ccwindow/internal/ledger"
)

// hookInput is the payload Claude Code pipes to Stop-event hooks.
type hookInput struct {
	SessionID string `json:"session_id"`
}

func NewIngestCommand() *cobra.Command {
	var (
		sessionID    string
		dataPath     string
		dashboardDir string
		debug        bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record new usage for one session",
		Long: `Reads the Stop-hook payload from stdin (or --session), extracts any
new usage lines from the session's log, and folds them into the ledger.
Runs unattended on every assistant turn and therefore never fails the
hook: every error path degrades to a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				var input hookInput
				// Malformed or empty stdin payload is a no-op.
				_ = json.NewDecoder(cmd.InOrStdin()).Decode(&input)
				sessionID = input.SessionID
			}

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

			driver := ingest.New(store, ex, cfg.Window.WindowHours)
			if err := driver.Ingest(sessionID); err != nil && debug {
				fmt.Fprintf(os.Stderr, "Debug: ingest failed: %v\n", err)
			}

			// A failed persist must never abort the host trigger.
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: read hook payload from stdin)")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the Claude projects directory")
	cmd.Flags().StringVar(&dashboardDir, "dashboard-dir", "", "Path to the dashboard state directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print debug traces to stderr")

	return cmd
}
