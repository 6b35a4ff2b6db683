package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Ask a music question answered from review data",
		Long: `Ask a music question. The query is rewritten for retrieval,
matched against the embedded reviews, and answered by the chat model
grounded in the matches. The answer uses ANSI colors and is meant for
a terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireChat(); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			answer, qc, err := a.rag.Answer(ctx, query)
			if err != nil {
				return err
			}

			a.logger.Info("query answered",
				"original", qc.Original(),
				"rewritten", qc.Rewritten(),
				"results", len(qc.Results()))
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}
