package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/infrastructure/persistence"
	"github.com/btholt/rag-on-azure/infrastructure/provider"
	"github.com/btholt/rag-on-azure/internal/testdb"
)

// axisEmbedder maps known texts to fixed axis-aligned vectors so
// similarity ordering in tests is predictable.
type axisEmbedder struct {
	axes map[string]int
}

func (e *axisEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, review.EmbeddingDim)
		if axis, ok := e.axes[text]; ok {
			v[axis] = 1
		} else {
			v[0] = 1
		}
		vectors[i] = v
	}
	return vectors, nil
}

func TestRetrievalService_Retrieve(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewPlain(t)
	embeddings := persistence.NewSQLiteEmbeddingStore(db)
	require.NoError(t, embeddings.EnsureSchema(ctx))

	axisVector := func(axis int) []float64 {
		v := make([]float64, review.EmbeddingDim)
		v[axis] = 1
		return v
	}
	require.NoError(t, embeddings.Insert(ctx,
		review.NewEmbedding("match", axisVector(0), "Matching Album", "Matching Artist", 8)))
	require.NoError(t, embeddings.Insert(ctx,
		review.NewEmbedding("miss", axisVector(1), "Other Album", "Other Artist", 9)))

	gen := &fakeGenerator{
		response: provider.NewChatCompletionResponse([]string{"<query>optimized terms</query>"}),
	}
	rewriter := NewQueryRewriter(gen, "", testLogger())
	embedder := &axisEmbedder{axes: map[string]int{"optimized terms": 0}}

	svc := NewRetrievalService(rewriter, embedder, embeddings, 1, testLogger())

	qc, err := svc.Retrieve(ctx, "raw user question")
	require.NoError(t, err)
	require.Equal(t, "raw user question", qc.Original())
	require.Equal(t, "optimized terms", qc.Rewritten())
	require.Len(t, qc.Results(), 1)
	require.Equal(t, "match", qc.Results()[0].ReviewID())
}

func TestRetrievalService_RewriteFailureStillSearches(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewPlain(t)
	embeddings := persistence.NewSQLiteEmbeddingStore(db)
	require.NoError(t, embeddings.EnsureSchema(ctx))

	v := make([]float64, review.EmbeddingDim)
	v[0] = 1
	require.NoError(t, embeddings.Insert(ctx,
		review.NewEmbedding("r1", v, "Album", "Artist", 7)))

	rewriter := NewQueryRewriter(nil, "", testLogger())
	embedder := &axisEmbedder{}

	svc := NewRetrievalService(rewriter, embedder, embeddings, 10, testLogger())

	qc, err := svc.Retrieve(ctx, "plain query")
	require.NoError(t, err)
	require.Equal(t, "plain query", qc.Rewritten())
	require.Len(t, qc.Results(), 1)
}
