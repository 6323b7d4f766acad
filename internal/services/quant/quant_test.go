package quant

import (
	"math"
	"time"

	"MarketLens/internal/domain/models"
)

// day returns a UTC date n days after the test epoch.
func day(n int) time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// matrixOf builds a single-symbol matrix; NaN marks a missing price.
func matrixOf(symbol string, prices []float64) *models.PriceMatrix {
	dates := make([]time.Time, len(prices))
	for i := range prices {
		dates[i] = day(i)
	}
	m := models.NewPriceMatrix(dates, []string{symbol})
	copy(m.Values[symbol], prices)
	return m
}

// seriesOf builds a series from values on consecutive days.
func seriesOf(values ...float64) models.Series {
	out := make(models.Series, len(values))
	for i, v := range values {
		out[i] = models.Point{Date: day(i + 1), Value: v}
	}
	return out
}

var nan = math.NaN()
