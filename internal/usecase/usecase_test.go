package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketLens/internal/domain/models"
)

// day returns a UTC date n days after the test epoch.
func day(n int) time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// fakeStore serves a pre-built matrix and records stored bars.
type fakeStore struct {
	matrix *models.PriceMatrix
	bars   []models.PriceBar
	stored []models.PriceBar
	err    error
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) StoreBatch(ctx context.Context, bars []models.PriceBar) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, bars...)
	return nil
}

func (f *fakeStore) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.PriceBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PriceBar, 0, len(f.bars))
	for _, b := range f.bars {
		if b.Symbol != symbol {
			continue
		}
		out = append(out, b)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetMatrix(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceMatrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matrix, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

// fakePublisher captures published records.
type fakePublisher struct {
	records []models.AnnualMetricsRecord
	err     error
}

func (f *fakePublisher) PublishMetrics(ctx context.Context, records []models.AnnualMetricsRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// fakeProvider serves canned bars per symbol, failing the ones in bad.
type fakeProvider struct {
	bars map[string][]models.PriceBar
	bad  map[string]bool
}

func (f *fakeProvider) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	if f.bad[symbol] {
		return nil, fmt.Errorf("provider unavailable for %s", symbol)
	}
	return f.bars[symbol], nil
}

// matrixFor builds a matrix over a shared date axis; NaN marks absence.
func matrixFor(columns map[string][]float64) *models.PriceMatrix {
	n := 0
	symbols := make([]string, 0, len(columns))
	for s, col := range columns {
		symbols = append(symbols, s)
		if len(col) > n {
			n = len(col)
		}
	}
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = day(i)
	}
	m := models.NewPriceMatrix(dates, symbols)
	for s, col := range columns {
		copy(m.Values[s], col)
	}
	return m
}

var nan = math.NaN()
