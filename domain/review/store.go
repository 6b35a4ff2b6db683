package review

import (
	"context"
	"errors"
)

// Store error sentinels.
var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// EmbeddingDim was written to or compared against the store.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDuplicateEmbedding indicates an insert for a reviewid that
	// already has an embedding row.
	ErrDuplicateEmbedding = errors.New("embedding already exists")
)

// Embedding pairs a review with its embedding vector and the
// denormalized columns copied into the vector store.
type Embedding struct {
	reviewID string
	vector   []float64
	title    string
	artist   string
	score    float64
}

// NewEmbedding creates a new Embedding.
func NewEmbedding(reviewID string, vector []float64, title, artist string, score float64) Embedding {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Embedding{
		reviewID: reviewID,
		vector:   vec,
		title:    title,
		artist:   artist,
		score:    score,
	}
}

// ReviewID returns the review identifier.
func (e Embedding) ReviewID() string { return e.reviewID }

// Vector returns the embedding vector (copy).
func (e Embedding) Vector() []float64 {
	vec := make([]float64, len(e.vector))
	copy(vec, e.vector)
	return vec
}

// Title returns the denormalized album title.
func (e Embedding) Title() string { return e.title }

// Artist returns the denormalized artist name.
func (e Embedding) Artist() string { return e.artist }

// Score returns the denormalized review score.
func (e Embedding) Score() float64 { return e.score }

// ReviewStore reads review records from the source-of-truth store.
type ReviewStore interface {
	// Window returns a bounded window of reviews (LIMIT/OFFSET
	// pagination). The ingestion pipeline is invoked repeatedly over
	// successive windows rather than loading the whole corpus.
	Window(ctx context.Context, limit, offset int) ([]Review, error)

	// NaiveSearch is the substring-match fallback: a single ILIKE query
	// over artist, title, and content, ordered by score descending.
	NaiveSearch(ctx context.Context, term string, limit int) ([]RetrievalResult, error)
}

// EmbeddingStore persists review embeddings and serves similarity
// queries. Rows are append-only: written once by the ingestion
// pipeline, never mutated or deleted by this system.
type EmbeddingStore interface {
	// EnsureSchema creates the embeddings table (and any required
	// extension) if absent. Safe to call repeatedly.
	EnsureSchema(ctx context.Context) error

	// ReviewIDs returns every reviewid currently present, used as the
	// ingestion membership set.
	ReviewIDs(ctx context.Context) ([]string, error)

	// Insert writes one embedding row. Fails with ErrDimensionMismatch
	// when the vector length differs from EmbeddingDim, and with
	// ErrDuplicateEmbedding when the reviewid already has a row.
	Insert(ctx context.Context, embedding Embedding) error

	// TopKBySimilarity returns the k rows most similar to the query
	// vector, ordered by descending cosine similarity
	// (1 - cosine distance).
	TopKBySimilarity(ctx context.Context, queryVector []float64, k int) ([]RetrievalResult, error)
}
