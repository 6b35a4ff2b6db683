package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPgVector_String(t *testing.T) {
	v := NewPgVector([]float64{1, 2.5, -0.25})
	require.Equal(t, "[1,2.5,-0.25]", v.String())
}

func TestPgVector_ScanRoundTrip(t *testing.T) {
	original := NewPgVector([]float64{0.1, -0.2, 0.3})

	value, err := original.Value()
	require.NoError(t, err)

	var scanned PgVector
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, original.Floats(), scanned.Floats())
}

func TestPgVector_ScanBytes(t *testing.T) {
	var v PgVector
	require.NoError(t, v.Scan([]byte("[1,2,3]")))
	require.Equal(t, []float64{1, 2, 3}, v.Floats())
	require.Equal(t, 3, v.Dimension())
}

func TestPgVector_ScanNil(t *testing.T) {
	var v PgVector
	require.NoError(t, v.Scan(nil))
	require.Empty(t, v.Floats())
}

func TestPgVector_ScanInvalid(t *testing.T) {
	var v PgVector
	require.Error(t, v.Scan("not a vector"))
	require.Error(t, v.Scan(42))
}

func TestPgVector_CopiesInput(t *testing.T) {
	floats := []float64{1, 2}
	v := NewPgVector(floats)
	floats[0] = 99
	require.Equal(t, 1.0, v.Floats()[0])
}
