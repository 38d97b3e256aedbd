package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Ask the backend to rebuild its knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.client.Ingest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, newTheme().success.Render(fmt.Sprintf("ingested %d documents", n)))
			return nil
		},
	}
}
