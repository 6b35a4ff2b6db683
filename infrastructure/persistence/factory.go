package persistence

import (
	"log/slog"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/internal/database"
)

// NewEmbeddingStore returns the embedding store matching the database
// backend. PostgreSQL gets pgvector, everything else the JSON-backed
// sqlite store.
func NewEmbeddingStore(db database.Database, log *slog.Logger) review.EmbeddingStore {
	if db.IsPostgres() {
		return NewPgVectorEmbeddingStore(db, log)
	}
	return NewSQLiteEmbeddingStore(db)
}
