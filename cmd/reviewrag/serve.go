package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/btholt/rag-on-azure/infrastructure/api"
	v1 "github.com/btholt/rag-on-azure/infrastructure/api/v1"
	"github.com/btholt/rag-on-azure/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables

Environment variables:
  HOST                       Server host to bind to (default: 0.0.0.0)
  PORT                       Server port to listen on (default: 8080)
  DB_URL                     Embeddings database URL (required)
  REVIEWS_DB_URL             Reviews database URL (default: DB_URL)
  LOG_LEVEL                  Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                 Log format: pretty, json (default: pretty)
  SEARCH_LIMIT               Vector search result count (default: 50)
  PROMPTS_FILE               YAML file with prompt overrides

  EMBEDDING_ENDPOINT_*       Embedding AI service configuration
    BASE_URL                 Base URL of the service
    API_KEY                  API key for authentication
    DEPLOYMENT               Deployment or model name
    TIMEOUT                  Request timeout (default: 60s)
    MAX_RETRIES              Retry attempts (default: 5)

  CHAT_ENDPOINT_*            Chat AI service configuration
    (same fields as EMBEDDING_ENDPOINT; optional)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runServe(ctx context.Context, envFile string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.embeddings.EnsureSchema(ctx); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := api.NewServer(a.cfg.Addr(), registry, a.logger)
	router := v1.NewRouter(a.rag, a.retrieval, a.reviews,
		config.DefaultNaiveLimit, server.Metrics(), a.logger)
	server.Mount("/api/v1", router.Routes())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	a.logger.Info("starting reviewrag server", slog.String("version", version))
	return server.Start()
}
