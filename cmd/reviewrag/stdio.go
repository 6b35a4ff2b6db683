package main

import (
	"github.com/spf13/cobra"

	"github.com/btholt/rag-on-azure/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve the MCP tools over stdio",
		Long: `Serve review search and recommendation tools over the Model
Context Protocol on stdin/stdout, for use by MCP clients.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.embeddings.EnsureSchema(ctx); err != nil {
				return err
			}

			return mcp.NewServer(a.retrieval, a.rag, a.logger).ServeStdio()
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}
