package quant

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
)

func TestCleanIdentityOnCompleteSeries(t *testing.T) {
	m := matrixOf("AAPL", []float64{100, 102, 101, 105})

	res, err := NewCleaner().Clean(m, models.FillForward, 2)
	require.NoError(t, err)
	require.Empty(t, res.Excluded)
	assert.Equal(t, []float64{100, 102, 101, 105}, res.Matrix.Values["AAPL"])
}

func TestCleanForwardFillLeavesLeadingGap(t *testing.T) {
	m := matrixOf("MSFT", []float64{nan, nan, 50, nan, 52, nan})

	res, err := NewCleaner().Clean(m, models.FillForward, 2)
	require.NoError(t, err)

	col := res.Matrix.Values["MSFT"]
	assert.True(t, math.IsNaN(col[0]), "leading gap must stay absent")
	assert.True(t, math.IsNaN(col[1]), "leading gap must stay absent")
	assert.Equal(t, 50.0, col[2])
	assert.Equal(t, 50.0, col[3], "interior gap forward-filled")
	assert.Equal(t, 52.0, col[4])
	assert.Equal(t, 52.0, col[5], "trailing gap forward-filled")
}

func TestCleanDropLeavesGapsAbsent(t *testing.T) {
	m := matrixOf("MSFT", []float64{50, nan, 52})

	res, err := NewCleaner().Clean(m, models.FillDrop, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Matrix.Values["MSFT"][1]))
}

func TestCleanInterpolate(t *testing.T) {
	m := matrixOf("GOOG", []float64{nan, 100, nan, nan, 106, nan})

	res, err := NewCleaner().Clean(m, models.FillInterpolate, 2)
	require.NoError(t, err)

	col := res.Matrix.Values["GOOG"]
	assert.True(t, math.IsNaN(col[0]), "leading gap must stay absent")
	assert.InDelta(t, 102.0, col[2], 1e-12)
	assert.InDelta(t, 104.0, col[3], 1e-12)
	assert.True(t, math.IsNaN(col[5]), "trailing gap must stay absent under interpolate")
}

func TestCleanExcludesSparseSymbolKeepsSiblings(t *testing.T) {
	dates := []time.Time{day(0), day(1), day(2), day(3)}
	m := models.NewPriceMatrix(dates, []string{"GOOD", "THIN"})
	copy(m.Values["GOOD"], []float64{10, 11, 12, 13})
	copy(m.Values["THIN"], []float64{nan, nan, nan, 5})

	res, err := NewCleaner().Clean(m, models.FillForward, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"GOOD"}, res.Matrix.Symbols)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "THIN", res.Excluded[0].Symbol)
	// leading gaps are never forward-filled, so only the final price counts
	assert.Equal(t, 1, res.Excluded[0].ValidObs)
}

func TestCleanRejectsDuplicateDates(t *testing.T) {
	dates := []time.Time{day(0), day(1), day(1)}
	m := models.NewPriceMatrix(dates, []string{"AAPL"})

	_, err := NewCleaner().Clean(m, models.FillForward, 1)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, 2, alignErr.Index)
}

func TestCleanRejectsUnsortedDates(t *testing.T) {
	dates := []time.Time{day(2), day(1), day(3)}
	m := models.NewPriceMatrix(dates, []string{"AAPL"})

	_, err := NewCleaner().Clean(m, models.FillForward, 1)
	var alignErr *AlignmentError
	assert.True(t, errors.As(err, &alignErr))
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	m := matrixOf("AAPL", []float64{100, nan, 105})

	_, err := NewCleaner().Clean(m, models.FillForward, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.Values["AAPL"][1]), "input matrix must stay untouched")
}
