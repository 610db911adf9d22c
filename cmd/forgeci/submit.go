package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func newSubmitCommand() *cobra.Command {
	var (
		serverURL string
		branch    string
	)

	cmd := &cobra.Command{
		Use:   "submit <repository-url>",
		Short: "Submit a run request to a forgeci server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]string{
				"repository": args[0],
				"branch":     branch,
			})
			if err != nil {
				return err
			}

			resp, err := http.Post(serverURL+"/api/runs", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("submitting run: %w", err)
			}
			defer resp.Body.Close()

			payload, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("server rejected run (%s): %s", resp.Status, bytes.TrimSpace(payload))
			}

			fmt.Fprint(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "forgeci server base URL")
	cmd.Flags().StringVarP(&branch, "branch", "b", "main", "branch to check out")
	return cmd
}
