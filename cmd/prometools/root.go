package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/prometools/pkg/cli"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "prometools",
		Short: "prometools - Prometheus metric adapters",
		Long: `prometools renders Prometheus metrics built from struct label sets,
unsuffixed counters, info gauges and lock-free time histograms.

The render command replays the configured fixture requests into a fresh
registry and writes the exposition text to stdout. Logs go to stderr.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "config file path (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newVersionCmd(),
		newFormatCmd(),
		newRenderCmd(flags),
		newCompletionCmd(rootCmd),
	)

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, ce := range cli.ConfigErrors(err) {
			fmt.Fprintf(os.Stderr, "  - %s\n", ce)
		}
	}
	return cli.ExitCode(err)
}
