package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccwindow/ccwindow/internal/commands"
)

func main() {
	ctx := context.Background()

	rootCmd := &cobra.Command{
		Use:   "ccwindow",
		Short: "Claude Code rolling-window usage tracker",
		Long: `Tracks Claude Code token usage over a rolling rate-limit window.
Ingests per-session usage on every assistant turn via the Stop hook and
renders the current window for menu bars, terminals, and scripts.`,
	}

	rootCmd.AddCommand(
		commands.NewIngestCommand(),
		commands.NewStatusCommand(),
		commands.NewScanCommand(),
		commands.NewResetCommand(),
		commands.NewMonitorCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
