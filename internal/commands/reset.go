package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/types"
)

func NewResetCommand() *cobra.Command {
	var dashboardDir string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the usage ledger",
		Long:  `Rewrites the ledger as empty, discarding all events and session read cursors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dashboardDir == "" {
				dashboardDir = defaultDashboardDir()
			}

			store := ledger.New(defaultLedgerPath(dashboardDir))
			if err := store.Save(types.NewTokenLedger()); err != nil {
				return fmt.Errorf("failed to reset ledger: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Ledger reset.")
			return nil
		},
	}

	cmd.Flags().StringVar(&dashboardDir, "dashboard-dir", "", "Path to the dashboard state directory")

	return cmd
}
