// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite database.
package testdb

import (
	"context"
	"testing"

	"github.com/btholt/rag-on-azure/internal/database"
)

// reviewSchema mirrors the externally owned review tables.
var reviewSchema = []string{
	`CREATE TABLE reviews (
		reviewid TEXT PRIMARY KEY,
		title TEXT,
		artist TEXT,
		score NUMERIC
	)`,
	`CREATE TABLE content (
		reviewid TEXT PRIMARY KEY,
		content TEXT
	)`,
}

// New creates an in-memory SQLite database with the review tables
// created. The database is closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	return WithSchema(t, reviewSchema...)
}

// NewPlain creates an in-memory SQLite database without any schema.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates an in-memory SQLite database and executes the
// given SQL statements to set up a custom schema.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}

// InsertReview adds one row to each review table.
func InsertReview(t *testing.T, db database.Database, reviewID, title, artist string, score float64, content string) {
	t.Helper()
	ctx := context.Background()
	err := db.Session(ctx).Exec(
		`INSERT INTO reviews (reviewid, title, artist, score) VALUES (?, ?, ?, ?)`,
		reviewID, title, artist, score,
	).Error
	if err != nil {
		t.Fatalf("testdb.InsertReview: %v", err)
	}
	err = db.Session(ctx).Exec(
		`INSERT INTO content (reviewid, content) VALUES (?, ?)`,
		reviewID, content,
	).Error
	if err != nil {
		t.Fatalf("testdb.InsertReview: %v", err)
	}
}
