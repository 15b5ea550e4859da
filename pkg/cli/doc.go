/*
Package cli provides command-line interface utilities for prometools.

The cli package includes output formatters, typed command errors with exit
codes, and signal handling used by the prometools command.

Output Formatting:

Command results can be printed as text, JSON or YAML:

	formatter := cli.NewFormatter(cli.FormatYAML)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

	os.Exit(cli.ExitCode(err))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
