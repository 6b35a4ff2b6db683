package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/provider"
)

// IngestionReport summarizes a single ingestion run.
type IngestionReport struct {
	Candidates int
	Skipped    int
	Embedded   int
	Failed     int
}

// IngestionService embeds review windows into the vector store.
// Failures are isolated per review so one bad row never aborts a run.
type IngestionService struct {
	reviews    review.ReviewStore
	embeddings review.EmbeddingStore
	embedder   provider.Embedder
	batchSize  int
	batchDelay time.Duration
	log        *slog.Logger
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(
	reviews review.ReviewStore,
	embeddings review.EmbeddingStore,
	embedder provider.Embedder,
	batchSize int,
	batchDelay time.Duration,
	log *slog.Logger,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &IngestionService{
		reviews:    reviews,
		embeddings: embeddings,
		embedder:   embedder,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		log:        log.With("component", "ingestion"),
	}
}

// EmbeddingText renders a review into the text submitted for
// embedding. The layout must stay stable across runs or stored
// vectors lose comparability with query vectors.
func EmbeddingText(r review.Review) string {
	return fmt.Sprintf("Artist: %s, Album: %s, Review: %s", r.Artist(), r.Title(), r.Content())
}

// Ingest embeds the review window at limit/offset, skipping reviews
// that already have embeddings. Returns an error only when the
// candidate window or the membership set cannot be fetched; per-review
// failures are logged and counted.
func (s *IngestionService) Ingest(ctx context.Context, limit, offset int) (IngestionReport, error) {
	if err := s.embeddings.EnsureSchema(ctx); err != nil {
		return IngestionReport{}, fmt.Errorf("ensure schema: %w", err)
	}

	candidates, err := s.reviews.Window(ctx, limit, offset)
	if err != nil {
		return IngestionReport{}, fmt.Errorf("fetch candidates: %w", err)
	}
	s.log.InfoContext(ctx, "retrieved review window", "count", len(candidates), "limit", limit, "offset", offset)

	existingIDs, err := s.embeddings.ReviewIDs(ctx)
	if err != nil {
		return IngestionReport{}, fmt.Errorf("fetch existing embeddings: %w", err)
	}
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}
	s.log.InfoContext(ctx, "found existing embeddings", "count", len(existing))

	pending := make([]review.Review, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := existing[candidate.ReviewID()]; ok {
			continue
		}
		pending = append(pending, candidate)
	}

	report := IngestionReport{
		Candidates: len(candidates),
		Skipped:    len(candidates) - len(pending),
	}
	s.log.InfoContext(ctx, "embedding pending reviews", "count", len(pending))

	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		s.log.InfoContext(ctx, "processing batch",
			"batch", start/s.batchSize+1,
			"total", (len(pending)+s.batchSize-1)/s.batchSize)

		embedded := s.processBatch(ctx, batch)
		report.Embedded += embedded
		report.Failed += len(batch) - embedded

		// Rate-limit pressure relief between batches.
		if end < len(pending) && s.batchDelay > 0 {
			select {
			case <-time.After(s.batchDelay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	s.log.InfoContext(ctx, "ingestion complete",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"embedded", report.Embedded,
		"failed", report.Failed)
	return report, nil
}

// processBatch embeds and inserts a batch concurrently. Each review
// succeeds or fails on its own; a failure never cancels its siblings.
func (s *IngestionService) processBatch(ctx context.Context, batch []review.Review) int {
	outcomes := make([]bool, len(batch))
	var group errgroup.Group
	for i, r := range batch {
		group.Go(func() error {
			if err := s.embedOne(ctx, r); err != nil {
				s.log.ErrorContext(ctx, "failed to embed review",
					"reviewid", r.ReviewID(), "error", err)
				return nil
			}
			outcomes[i] = true
			return nil
		})
	}
	_ = group.Wait()

	embedded := 0
	for _, ok := range outcomes {
		if ok {
			embedded++
		}
	}
	return embedded
}

func (s *IngestionService) embedOne(ctx context.Context, r review.Review) error {
	vectors, err := s.embedder.Embed(ctx, []string{EmbeddingText(r)})
	if err != nil {
		return fmt.Errorf("generate embedding: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	embedding := review.NewEmbedding(r.ReviewID(), vectors[0], r.Title(), r.Artist(), r.Score())
	if err := s.embeddings.Insert(ctx, embedding); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	s.log.DebugContext(ctx, "created embedding", "reviewid", r.ReviewID())
	return nil
}
