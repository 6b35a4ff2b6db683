package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/internal/database"
)

const (
	createVectorExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	createEmbeddingsTable = `
CREATE TABLE IF NOT EXISTS embeddings (
	reviewid TEXT PRIMARY KEY,
	embedding vector(1536),
	title TEXT,
	artist TEXT,
	score NUMERIC
)`

	createEmbeddingIndex = `
CREATE INDEX IF NOT EXISTS embeddings_embedding_idx
ON embeddings USING ivfflat (embedding vector_cosine_ops)`

	insertEmbeddingQuery = `
INSERT INTO embeddings (reviewid, embedding, title, artist, score)
VALUES (?, ?::vector, ?, ?, ?)`

	topKQuery = `
SELECT reviewid, title, artist, score,
	1 - (embedding <=> ?::vector) AS similarity
FROM embeddings
ORDER BY similarity DESC
LIMIT ?`
)

// embeddingRow is the scan target for similarity queries.
type embeddingRow struct {
	ReviewID   string  `gorm:"column:reviewid"`
	Title      string  `gorm:"column:title"`
	Artist     string  `gorm:"column:artist"`
	Score      float64 `gorm:"column:score"`
	Similarity float64 `gorm:"column:similarity"`
}

// PgVectorEmbeddingStore persists embeddings in PostgreSQL using the
// pgvector extension and its cosine distance operator.
type PgVectorEmbeddingStore struct {
	db  database.Database
	log *slog.Logger
}

// NewPgVectorEmbeddingStore creates a new PgVectorEmbeddingStore.
func NewPgVectorEmbeddingStore(db database.Database, log *slog.Logger) *PgVectorEmbeddingStore {
	return &PgVectorEmbeddingStore{db: db, log: log.With("component", "pgvector_store")}
}

// EnsureSchema creates the vector extension and embeddings table if
// they do not exist. Index creation failures are logged and ignored
// since ivfflat indexes need populated data to build well.
func (s *PgVectorEmbeddingStore) EnsureSchema(ctx context.Context) error {
	session := s.db.Session(ctx)
	if err := session.Exec(createVectorExtension).Error; err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	if err := session.Exec(createEmbeddingsTable).Error; err != nil {
		return fmt.Errorf("create embeddings table: %w", err)
	}
	if err := session.Exec(createEmbeddingIndex).Error; err != nil {
		s.log.WarnContext(ctx, "failed to create embedding index", "error", err)
	}
	return nil
}

// ReviewIDs returns every reviewid that already has an embedding.
func (s *PgVectorEmbeddingStore) ReviewIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.Session(ctx).Raw(`SELECT reviewid FROM embeddings`).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetch embedded review ids: %w", err)
	}
	return ids, nil
}

// Insert stores a single embedding row.
func (s *PgVectorEmbeddingStore) Insert(ctx context.Context, embedding review.Embedding) error {
	vector := embedding.Vector()
	if len(vector) != review.EmbeddingDim {
		return fmt.Errorf("%w: got %d dimensions, want %d",
			review.ErrDimensionMismatch, len(vector), review.EmbeddingDim)
	}

	err := s.db.Session(ctx).Exec(insertEmbeddingQuery,
		embedding.ReviewID(),
		database.NewPgVector(vector).String(),
		embedding.Title(),
		embedding.Artist(),
		embedding.Score(),
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", review.ErrDuplicateEmbedding, embedding.ReviewID())
		}
		return fmt.Errorf("insert embedding %s: %w", embedding.ReviewID(), err)
	}
	return nil
}

// TopKBySimilarity returns the k embeddings closest to the query
// vector by cosine similarity, most similar first.
func (s *PgVectorEmbeddingStore) TopKBySimilarity(ctx context.Context, queryVector []float64, k int) ([]review.RetrievalResult, error) {
	if len(queryVector) != review.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d",
			review.ErrDimensionMismatch, len(queryVector), review.EmbeddingDim)
	}

	var rows []embeddingRow
	err := s.db.Session(ctx).Raw(topKQuery, database.NewPgVector(queryVector).String(), k).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]review.RetrievalResult, len(rows))
	for i, row := range rows {
		results[i] = review.NewRetrievalResult(row.ReviewID, row.Title, row.Artist, row.Score, row.Similarity)
	}
	return results, nil
}

var _ review.EmbeddingStore = (*PgVectorEmbeddingStore)(nil)
