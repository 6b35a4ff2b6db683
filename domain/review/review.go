// Package review holds the domain model for the music-review corpus:
// source records, retrieval results, and the embedding invariants shared
// by every store implementation.
package review

import "strconv"

// EmbeddingDim is the fixed dimensionality of every embedding vector in
// the system. Vectors written to or compared against the store must have
// exactly this many elements.
const EmbeddingDim = 1536

// Review is a single music review from the source-of-truth record store.
// Records are created and owned externally; this system only reads them.
type Review struct {
	reviewID string
	title    string
	artist   string
	score    float64
	content  string
}

// NewReview creates a new Review.
func NewReview(reviewID, title, artist string, score float64, content string) Review {
	return Review{
		reviewID: reviewID,
		title:    title,
		artist:   artist,
		score:    score,
		content:  content,
	}
}

// ReviewID returns the opaque unique identifier.
func (r Review) ReviewID() string { return r.reviewID }

// Title returns the album title.
func (r Review) Title() string { return r.title }

// Artist returns the artist name.
func (r Review) Artist() string { return r.artist }

// Score returns the numeric review score (0–10 scale).
func (r Review) Score() float64 { return r.score }

// Content returns the free-text review body. May be empty.
func (r Review) Content() string { return r.content }

// FormatScore renders the score the way the review corpus prints it,
// without trailing zeros (8.9 not 8.90).
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// RetrievalResult is one ranked hit from a similarity search. It is
// transient: produced per query, never persisted.
type RetrievalResult struct {
	reviewID   string
	title      string
	artist     string
	score      float64
	similarity float64
}

// NewRetrievalResult creates a new RetrievalResult.
func NewRetrievalResult(reviewID, title, artist string, score, similarity float64) RetrievalResult {
	return RetrievalResult{
		reviewID:   reviewID,
		title:      title,
		artist:     artist,
		score:      score,
		similarity: similarity,
	}
}

// ReviewID returns the matched review's identifier.
func (r RetrievalResult) ReviewID() string { return r.reviewID }

// Title returns the album title.
func (r RetrievalResult) Title() string { return r.title }

// Artist returns the artist name.
func (r RetrievalResult) Artist() string { return r.artist }

// Score returns the review score.
func (r RetrievalResult) Score() float64 { return r.score }

// Similarity returns the cosine similarity to the query embedding.
// Higher is more relevant.
func (r RetrievalResult) Similarity() float64 { return r.similarity }

// QueryContext carries a query through the retrieval pipeline: the
// user's original text, the rewritten form actually searched, and the
// ranked results.
type QueryContext struct {
	original  string
	rewritten string
	results   []RetrievalResult
}

// NewQueryContext creates a new QueryContext.
func NewQueryContext(original, rewritten string, results []RetrievalResult) QueryContext {
	rs := make([]RetrievalResult, len(results))
	copy(rs, results)
	return QueryContext{
		original:  original,
		rewritten: rewritten,
		results:   rs,
	}
}

// Original returns the user's query as entered.
func (q QueryContext) Original() string { return q.original }

// Rewritten returns the retrieval-optimized query. Equals Original when
// the rewrite step fell back.
func (q QueryContext) Rewritten() string { return q.rewritten }

// Results returns the ranked retrieval results, most relevant first.
func (q QueryContext) Results() []RetrievalResult {
	rs := make([]RetrievalResult, len(q.results))
	copy(rs, q.results)
	return rs
}
