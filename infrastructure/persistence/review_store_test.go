package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btholt/rag-on-azure/internal/testdb"
)

func TestGormReviewStore_Window(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.InsertReview(t, db, "a1", "Album One", "Artist One", 7.5, "first review")
	testdb.InsertReview(t, db, "a2", "Album Two", "Artist Two", 8.0, "second review")
	testdb.InsertReview(t, db, "a3", "Album Three", "Artist Three", 6.5, "third review")

	store := NewGormReviewStore(db)

	reviews, err := store.Window(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "a1", reviews[0].ReviewID())
	require.Equal(t, "Album One", reviews[0].Title())
	require.Equal(t, "first review", reviews[0].Content())

	reviews, err = store.Window(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "a3", reviews[0].ReviewID())
}

func TestGormReviewStore_WindowSkipsReviewsWithoutContent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.InsertReview(t, db, "a1", "Album One", "Artist One", 7.5, "text")
	require.NoError(t, db.Session(ctx).Exec(
		`INSERT INTO reviews (reviewid, title, artist, score) VALUES ('orphan', 'No Content', 'X', 5)`,
	).Error)

	store := NewGormReviewStore(db)
	reviews, err := store.Window(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "a1", reviews[0].ReviewID())
}

func TestGormReviewStore_NaiveSearch(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.InsertReview(t, db, "a1", "Transatlanticism", "Death Cab for Cutie", 8.2, "indie rock landmark")
	testdb.InsertReview(t, db, "a2", "Plans", "Death Cab for Cutie", 7.0, "follow-up record")
	testdb.InsertReview(t, db, "a3", "Unrelated", "Somebody Else", 9.0, "different genre entirely")

	store := NewGormReviewStore(db)

	results, err := store.NaiveSearch(ctx, "death cab", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Ordered by score, best first.
	require.Equal(t, "a1", results[0].ReviewID())
	require.Equal(t, "a2", results[1].ReviewID())
}

func TestGormReviewStore_NaiveSearchMatchesContent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.InsertReview(t, db, "a1", "Some Album", "Some Artist", 8.0, "a shoegaze classic")

	store := NewGormReviewStore(db)
	results, err := store.NaiveSearch(ctx, "shoegaze", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestGormReviewStore_NaiveSearchLimit(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	for _, id := range []string{"a1", "a2", "a3"} {
		testdb.InsertReview(t, db, id, "Album "+id, "Shared Artist", 7.0, "text")
	}

	store := NewGormReviewStore(db)
	results, err := store.NaiveSearch(ctx, "shared", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
}
