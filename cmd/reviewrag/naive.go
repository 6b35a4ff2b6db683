package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/internal/config"
)

func naiveCmd() *cobra.Command {
	var (
		envFile string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "naive [term]",
		Short: "Substring search over reviews, no embeddings involved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, envFile)
			if err != nil {
				return err
			}
			defer a.close()

			term := strings.Join(args, " ")
			results, err := a.reviews.NaiveSearch(ctx, term, limit)
			if err != nil {
				return err
			}

			for i, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. Artist: %s, Album: %s, Score: %s/10\n",
					i+1, result.Artist(), result.Title(), review.FormatScore(result.Score()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&limit, "limit", config.DefaultNaiveLimit, "Maximum number of results")

	return cmd
}
