package persistence

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/internal/database"
)

// Float64Slice stores a vector as a JSON array in a TEXT column.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Float64Slice: %T", value)
	}
	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	return json.Marshal(f)
}

const createSQLiteEmbeddingsTable = `
CREATE TABLE IF NOT EXISTS embeddings (
	reviewid TEXT PRIMARY KEY,
	embedding TEXT,
	title TEXT,
	artist TEXT,
	score NUMERIC
)`

// sqliteEmbeddingRow is the scan target for the sqlite store.
type sqliteEmbeddingRow struct {
	ReviewID  string       `gorm:"column:reviewid"`
	Embedding Float64Slice `gorm:"column:embedding"`
	Title     string       `gorm:"column:title"`
	Artist    string       `gorm:"column:artist"`
	Score     float64      `gorm:"column:score"`
}

// SQLiteEmbeddingStore persists embeddings as JSON vectors and ranks
// them with in-process cosine similarity. It exists for local
// development and tests where pgvector is unavailable.
type SQLiteEmbeddingStore struct {
	db database.Database
}

// NewSQLiteEmbeddingStore creates a new SQLiteEmbeddingStore.
func NewSQLiteEmbeddingStore(db database.Database) *SQLiteEmbeddingStore {
	return &SQLiteEmbeddingStore{db: db}
}

// EnsureSchema creates the embeddings table if it does not exist.
func (s *SQLiteEmbeddingStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.Session(ctx).Exec(createSQLiteEmbeddingsTable).Error; err != nil {
		return fmt.Errorf("create embeddings table: %w", err)
	}
	return nil
}

// ReviewIDs returns every reviewid that already has an embedding.
func (s *SQLiteEmbeddingStore) ReviewIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.Session(ctx).Raw(`SELECT reviewid FROM embeddings`).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetch embedded review ids: %w", err)
	}
	return ids, nil
}

// Insert stores a single embedding row.
func (s *SQLiteEmbeddingStore) Insert(ctx context.Context, embedding review.Embedding) error {
	vector := embedding.Vector()
	if len(vector) != review.EmbeddingDim {
		return fmt.Errorf("%w: got %d dimensions, want %d",
			review.ErrDimensionMismatch, len(vector), review.EmbeddingDim)
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encode embedding %s: %w", embedding.ReviewID(), err)
	}

	err = s.db.Session(ctx).Exec(
		`INSERT INTO embeddings (reviewid, embedding, title, artist, score) VALUES (?, ?, ?, ?, ?)`,
		embedding.ReviewID(), string(encoded), embedding.Title(), embedding.Artist(), embedding.Score(),
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", review.ErrDuplicateEmbedding, embedding.ReviewID())
		}
		return fmt.Errorf("insert embedding %s: %w", embedding.ReviewID(), err)
	}
	return nil
}

// TopKBySimilarity loads every embedding and ranks it in process.
// Acceptable for the dataset sizes sqlite is used with.
func (s *SQLiteEmbeddingStore) TopKBySimilarity(ctx context.Context, queryVector []float64, k int) ([]review.RetrievalResult, error) {
	if len(queryVector) != review.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d",
			review.ErrDimensionMismatch, len(queryVector), review.EmbeddingDim)
	}

	var rows []sqliteEmbeddingRow
	err := s.db.Session(ctx).Raw(`SELECT reviewid, embedding, title, artist, score FROM embeddings`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]review.RetrievalResult, len(rows))
	for i, row := range rows {
		similarity := CosineSimilarity(queryVector, row.Embedding)
		results[i] = review.NewRetrievalResult(row.ReviewID, row.Title, row.Artist, row.Score, similarity)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity() > results[j].Similarity()
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

var _ review.EmbeddingStore = (*SQLiteEmbeddingStore)(nil)
