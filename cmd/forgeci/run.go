package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"forgeci/internal/core"
	"forgeci/internal/workspace"
)

func newRunCommand() *cobra.Command {
	var (
		pipelineFile   string
		descriptorPath string
		env            []string
	)

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run a pipeline against a local checkout",
		Long: `Run opens the given directory (default ".") as a workspace and
executes its pipeline descriptor. The transcript is written to stdout;
a failing command stops the run and the partial transcript is still
printed. Ctrl-C cancels the in-flight command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := cliLogger()

			ws, err := workspace.Open(ctx, dir,
				workspace.WithDescriptorPath(descriptorPath),
				workspace.WithEnvironment(env))
			if err != nil {
				return err
			}
			logger.Info("workspace opened", "dir", ws.Directory(), "branch", ws.Branch(), "commit", ws.Commit())

			executor := core.NewExecutor(ws, logger)

			var transcript string
			if pipelineFile != "" {
				pipeline, loadErr := core.LoadPipeline(pipelineFile)
				if loadErr != nil {
					return loadErr
				}
				transcript, err = executor.Run(ctx, pipeline)
			} else {
				transcript, err = executor.RunDefault(ctx)
			}

			// The transcript is the product, success or not.
			fmt.Fprint(cmd.OutOrStdout(), transcript)
			if err != nil {
				fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&pipelineFile, "file", "f", "", "run an explicit pipeline file instead of the workspace descriptor")
	cmd.Flags().StringVar(&descriptorPath, "descriptor", workspace.DefaultDescriptorPath, "relative path of the pipeline descriptor")
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "extra key=value environment entries for pipeline commands")
	return cmd
}
