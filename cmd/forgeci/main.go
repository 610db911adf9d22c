// forgeci is the CLI front-end to the pipeline execution core: it runs
// pipelines against local checkouts, validates descriptor files, and
// submits runs to a forgeci server.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"forgeci/internal/logging"
)

var verbose bool

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "forgeci",
		Short:         "Run, validate, and submit CI pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newSubmitCommand())
	return root
}

// cliLogger keeps stdout clean for transcripts: logs go to stderr, and
// only warnings unless --verbose is set.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(logging.Config{Level: level, Service: "cli"})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
