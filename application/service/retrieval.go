package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/provider"
)

// RetrievalService turns a user query into ranked review results by
// rewriting it, embedding it, and running a similarity search.
type RetrievalService struct {
	rewriter   *QueryRewriter
	embedder   provider.Embedder
	embeddings review.EmbeddingStore
	limit      int
	log        *slog.Logger
}

// NewRetrievalService creates a new RetrievalService.
func NewRetrievalService(
	rewriter *QueryRewriter,
	embedder provider.Embedder,
	embeddings review.EmbeddingStore,
	limit int,
	log *slog.Logger,
) *RetrievalService {
	return &RetrievalService{
		rewriter:   rewriter,
		embedder:   embedder,
		embeddings: embeddings,
		limit:      limit,
		log:        log.With("component", "retrieval"),
	}
}

// Retrieve returns the query context for a user query: the rewritten
// form plus the top matching reviews. Unlike rewriting, embedding and
// search failures are fatal since there is nothing to rank without
// them.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (review.QueryContext, error) {
	rewritten := s.rewriter.Rewrite(ctx, query)

	vectors, err := s.embedder.Embed(ctx, []string{rewritten})
	if err != nil {
		return review.QueryContext{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return review.QueryContext{}, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
	}

	results, err := s.embeddings.TopKBySimilarity(ctx, vectors[0], s.limit)
	if err != nil {
		return review.QueryContext{}, fmt.Errorf("similarity search: %w", err)
	}
	s.log.DebugContext(ctx, "retrieved similar reviews", "count", len(results), "query", rewritten)

	return review.NewQueryContext(query, rewritten, results), nil
}
