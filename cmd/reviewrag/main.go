// Package main is the entry point for the reviewrag CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewrag",
		Short: "Music review retrieval and recommendation pipeline",
		Long: `reviewrag embeds music reviews into a vector store and answers
questions about music grounded in those reviews.`,
	}

	cmd.AddCommand(askCmd())
	cmd.AddCommand(ingestCmd())
	cmd.AddCommand(naiveCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
