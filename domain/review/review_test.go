package review

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{8.5, "8.5"},
		{10, "10"},
		{0, "0"},
		{7.25, "7.25"},
		{9.1, "9.1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatScore(tt.score))
	}
}

func TestNewQueryContext_CopiesResults(t *testing.T) {
	results := []RetrievalResult{
		NewRetrievalResult("r1", "OK Computer", "Radiohead", 10, 0.95),
	}
	qc := NewQueryContext("original", "rewritten", results)

	results[0] = NewRetrievalResult("r2", "Kid A", "Radiohead", 10, 0.9)
	require.Equal(t, "r1", qc.Results()[0].ReviewID())

	got := qc.Results()
	got[0] = NewRetrievalResult("r3", "Amnesiac", "Radiohead", 9, 0.8)
	require.Equal(t, "r1", qc.Results()[0].ReviewID())
}

func TestNewEmbedding_CopiesVector(t *testing.T) {
	vector := []float64{1, 2, 3}
	e := NewEmbedding("r1", vector, "Lonerism", "Tame Impala", 9)

	vector[0] = 99
	require.Equal(t, 1.0, e.Vector()[0])

	got := e.Vector()
	got[1] = 99
	require.Equal(t, 2.0, e.Vector()[1])
}

func TestReviewGetters(t *testing.T) {
	r := NewReview("r1", "Currents", "Tame Impala", 9.3, "review text")
	require.Equal(t, "r1", r.ReviewID())
	require.Equal(t, "Currents", r.Title())
	require.Equal(t, "Tame Impala", r.Artist())
	require.Equal(t, 9.3, r.Score())
	require.Equal(t, "review text", r.Content())
}
