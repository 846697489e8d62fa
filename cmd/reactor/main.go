// Command reactor runs demo scenarios of the reactor runtime: a debounced
// type-ahead search, a live dashboard and an authentication guard.
//
// Scenarios run on a virtual clock unless --realtime is given, so their
// output is deterministic.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		e        env
	)

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Demo scenarios for the reactor runtime",
		Long: `Run small programs built on reactor cells and streams.

Every scenario prints what its tasks observe, stamped with the
scenario clock. Timing runs on a virtual clock by default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}

			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&e.realtime, "realtime", false, "Run on wall time instead of a virtual clock")
	rootCmd.PersistentFlags().BoolVar(&e.metrics, "metrics", false, "Print the runtime counters after the scenario")

	rootCmd.AddCommand(
		searchCmd(&e),
		dashboardCmd(&e),
		guardCmd(&e),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
