// Package persistence provides the GORM-backed review and embedding stores.
package persistence

import (
	"context"
	"fmt"

	"github.com/btholt/rag-on-azure/domain/review"
	"github.com/btholt/rag-on-azure/internal/database"
)

// Record-store queries. The reviews and content tables are owned
// externally; this system only reads them.
const (
	reviewWindowQuery = `
SELECT r.reviewid, r.title, r.artist, r.score, c.content
FROM reviews r
JOIN content c ON r.reviewid = c.reviewid
ORDER BY r.reviewid
LIMIT ? OFFSET ?`

	naiveSearchTemplate = `
SELECT r.reviewid, r.title, r.artist, r.score
FROM reviews r
JOIN content c ON r.reviewid = c.reviewid
WHERE (r.artist || ' ' || r.title || ' ' || c.content) %s '%%' || ? || '%%'
ORDER BY r.score DESC
LIMIT ?`
)

// reviewRow is the scan target for record-store queries.
type reviewRow struct {
	ReviewID string  `gorm:"column:reviewid"`
	Title    string  `gorm:"column:title"`
	Artist   string  `gorm:"column:artist"`
	Score    float64 `gorm:"column:score"`
	Content  string  `gorm:"column:content"`
}

// GormReviewStore reads review records through GORM.
type GormReviewStore struct {
	db database.Database
}

// NewGormReviewStore creates a new GormReviewStore.
func NewGormReviewStore(db database.Database) *GormReviewStore {
	return &GormReviewStore{db: db}
}

// Window returns a bounded window of reviews ordered by reviewid, so
// that successive ingestion runs see stable pagination.
func (s *GormReviewStore) Window(ctx context.Context, limit, offset int) ([]review.Review, error) {
	var rows []reviewRow
	err := s.db.Session(ctx).Raw(reviewWindowQuery, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch review window: %w", err)
	}

	reviews := make([]review.Review, len(rows))
	for i, row := range rows {
		reviews[i] = review.NewReview(row.ReviewID, row.Title, row.Artist, row.Score, row.Content)
	}
	return reviews, nil
}

// NaiveSearch is the substring-match fallback path: one query, no
// pipeline logic. Case-insensitive match over artist, title, and
// content, best-scored reviews first.
func (s *GormReviewStore) NaiveSearch(ctx context.Context, term string, limit int) ([]review.RetrievalResult, error) {
	// ILIKE is PostgreSQL-only; SQLite's LIKE is already
	// case-insensitive for ASCII.
	operator := "LIKE"
	if s.db.IsPostgres() {
		operator = "ILIKE"
	}
	query := fmt.Sprintf(naiveSearchTemplate, operator)

	var rows []reviewRow
	err := s.db.Session(ctx).Raw(query, term, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("naive search: %w", err)
	}

	results := make([]review.RetrievalResult, len(rows))
	for i, row := range rows {
		results[i] = review.NewRetrievalResult(row.ReviewID, row.Title, row.Artist, row.Score, 0)
	}
	return results, nil
}

var _ review.ReviewStore = (*GormReviewStore)(nil)
