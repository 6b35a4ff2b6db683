package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/btholt/rag-on-azure/application/service"
	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/persistence"
	"github.com/btholt/rag-on-azure/infrastructure/provider"
	"github.com/btholt/rag-on-azure/internal/config"
	"github.com/btholt/rag-on-azure/internal/database"
	"github.com/btholt/rag-on-azure/internal/log"
)

// app holds the wired pipeline shared by the CLI commands.
type app struct {
	cfg        config.AppConfig
	logger     *slog.Logger
	embedDB    database.Database
	reviewsDB  database.Database
	reviews    review.ReviewStore
	embeddings review.EmbeddingStore
	embedder   provider.Embedder
	generator  provider.TextGenerator
	ingestion  *service.IngestionService
	retrieval  *service.RetrievalService
	composer   *service.AnswerComposer
	rag        *service.RAGService
}

// newApp wires every component from configuration. The chat endpoint
// is optional; without it queries pass through unrewritten and the ask
// commands refuse to run.
func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.Configure(log.ParseFormat(cfg.LogFormat()), cfg.LogLevel())

	embedDB, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open embeddings database: %w", err)
	}

	reviewsDB := embedDB
	if cfg.ReviewsDBURL() != cfg.DBURL() {
		reviewsDB, err = database.NewDatabase(ctx, cfg.ReviewsDBURL())
		if err != nil {
			_ = embedDB.Close()
			return nil, fmt.Errorf("open reviews database: %w", err)
		}
	}

	prompts, err := config.LoadPrompts(cfg.PromptsFile())
	if err != nil {
		_ = closeDatabases(embedDB, reviewsDB)
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	prompts = service.ResolvePrompts(prompts)

	embedder := provider.NewOpenAIProvider(endpointConfig(cfg.EmbeddingEndpoint()))

	var generator provider.TextGenerator
	if chatCfg := endpointConfig(cfg.ChatEndpoint()); chatCfg.Configured() {
		generator = provider.NewOpenAIProvider(chatCfg)
	}

	reviews := persistence.NewGormReviewStore(reviewsDB)
	embeddings := persistence.NewEmbeddingStore(embedDB, logger)

	rewriter := service.NewQueryRewriter(generator, prompts.Rewriter, logger)
	retrieval := service.NewRetrievalService(rewriter, embedder, embeddings, cfg.SearchLimit(), logger)
	composer := service.NewAnswerComposer(generator, prompts.Composer, logger)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		embedDB:    embedDB,
		reviewsDB:  reviewsDB,
		reviews:    reviews,
		embeddings: embeddings,
		embedder:   embedder,
		generator:  generator,
		ingestion: service.NewIngestionService(
			reviews, embeddings, embedder, cfg.BatchSize(), cfg.BatchDelay(), logger),
		retrieval: retrieval,
		composer:  composer,
		rag:       service.NewRAGService(retrieval, composer, logger),
	}
	return a, nil
}

// requireChat returns an error when no chat endpoint is configured.
// Commands that compose answers need one; search-only commands do not.
func (a *app) requireChat() error {
	if a.generator == nil {
		return config.ErrChatNotConfigured
	}
	return nil
}

func (a *app) close() {
	if err := closeDatabases(a.embedDB, a.reviewsDB); err != nil {
		a.logger.Error("failed to close databases", slog.Any("error", err))
	}
}

func endpointConfig(e config.Endpoint) provider.OpenAIConfig {
	return provider.OpenAIConfig{
		APIKey:        e.APIKey(),
		BaseURL:       e.BaseURL(),
		Deployment:    e.Deployment(),
		Timeout:       e.Timeout(),
		MaxRetries:    e.MaxRetries(),
		InitialDelay:  e.InitialDelay(),
		BackoffFactor: e.BackoffFactor(),
	}
}

func closeDatabases(embedDB, reviewsDB database.Database) error {
	err := embedDB.Close()
	if reviewsDB != embedDB {
		if cerr := reviewsDB.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
