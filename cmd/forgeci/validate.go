package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forgeci/internal/core"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pipeline.yaml>",
		Short: "Parse and validate a pipeline descriptor without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := core.LoadPipeline(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (pipeline %q, %d steps)\n",
				args[0], pipeline.Name, len(pipeline.Steps))
			return nil
		},
	}
}
