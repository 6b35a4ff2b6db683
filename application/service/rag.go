package service

import (
	"context"
	"log/slog"

	"github.com/btholt/rag-on-azure/domain/review"
)

// RAGService is the end-to-end pipeline: retrieval followed by answer
// composition.
type RAGService struct {
	retrieval *RetrievalService
	composer  *AnswerComposer
	log       *slog.Logger
}

// NewRAGService creates a new RAGService.
func NewRAGService(retrieval *RetrievalService, composer *AnswerComposer, log *slog.Logger) *RAGService {
	return &RAGService{
		retrieval: retrieval,
		composer:  composer,
		log:       log.With("component", "rag"),
	}
}

// Answer runs a user query through the full pipeline and returns the
// composed answer along with the query context that informed it.
func (s *RAGService) Answer(ctx context.Context, query string) (string, review.QueryContext, error) {
	qc, err := s.retrieval.Retrieve(ctx, query)
	if err != nil {
		return "", review.QueryContext{}, err
	}
	answer := s.composer.Compose(ctx, query, qc.Results())
	return answer, qc, nil
}
