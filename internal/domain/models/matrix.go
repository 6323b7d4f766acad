package models

import (
	"math"
	"time"
)

// PriceMatrix holds daily close prices for a set of symbols over a shared
// date axis. Dates are ascending and unique; Values[symbol] is aligned to
// Dates and uses NaN for days the symbol has no observation.
type PriceMatrix struct {
	Dates   []time.Time
	Symbols []string
	Values  map[string][]float64
}

// NewPriceMatrix allocates a matrix with every cell absent.
func NewPriceMatrix(dates []time.Time, symbols []string) *PriceMatrix {
	values := make(map[string][]float64, len(symbols))
	for _, s := range symbols {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		values[s] = col
	}
	return &PriceMatrix{Dates: dates, Symbols: symbols, Values: values}
}

// Present reports whether the symbol has an observation at index i.
func (m *PriceMatrix) Present(symbol string, i int) bool {
	col, ok := m.Values[symbol]
	if !ok || i < 0 || i >= len(col) {
		return false
	}
	return !math.IsNaN(col[i])
}

// Column returns the aligned price column for symbol, or nil.
func (m *PriceMatrix) Column(symbol string) []float64 {
	return m.Values[symbol]
}

// SeriesFor projects the matrix onto one symbol, keeping only present
// observations. The result is safe to JSON-encode (no NaN).
func (m *PriceMatrix) SeriesFor(symbol string) Series {
	col, ok := m.Values[symbol]
	if !ok {
		return nil
	}
	out := make(Series, 0, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, Point{Date: m.Dates[i], Value: v})
	}
	return out
}

// PriceBar is one daily close observation as delivered by the market data
// provider and stored in ClickHouse.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}
