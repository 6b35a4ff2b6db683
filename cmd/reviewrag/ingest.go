package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btholt/rag-on-azure/internal/config"
)

func ingestCmd() *cobra.Command {
	var (
		envFile string
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Embed a window of reviews into the vector store",
		Long: `Embed reviews into the vector store. Reviews that already have
embeddings are skipped, so repeated runs over the same window are
cheap. Use --limit and --offset to walk the review table in windows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, envFile)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.ingestion.Ingest(ctx, limit, offset)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"candidates: %d\nskipped: %d\nembedded: %d\nfailed: %d\n",
				report.Candidates, report.Skipped, report.Embedded, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&limit, "limit", config.DefaultIngestLimit, "Maximum number of reviews to process")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset into the review table")

	return cmd
}
