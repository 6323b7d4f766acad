package models

import "time"

// Point is one dated observation in a series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of dated observations. Only defined
// values appear; undefined positions (leading gaps, first return) are
// simply not present.
type Series []Point

// Values returns the raw value slice in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the final point, or a zero Point for an empty series.
func (s Series) Last() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[len(s)-1]
}

// FillStrategy selects how the cleaner treats missing prices.
type FillStrategy string

const (
	FillForward     FillStrategy = "forward"
	FillDrop        FillStrategy = "drop"
	FillInterpolate FillStrategy = "interpolate"
)

// IsValidFillStrategy returns true if fs is a supported strategy.
func IsValidFillStrategy(fs FillStrategy) bool {
	switch fs {
	case FillForward, FillDrop, FillInterpolate:
		return true
	default:
		return false
	}
}

// DefaultFillStrategy returns the default cleaning strategy.
func DefaultFillStrategy() FillStrategy { return FillForward }

// NormalizeFillStrategy converts a raw string to a valid strategy (or default).
func NormalizeFillStrategy(s string) FillStrategy {
	if s == "" {
		return DefaultFillStrategy()
	}
	fs := FillStrategy(s)
	if IsValidFillStrategy(fs) {
		return fs
	}
	return DefaultFillStrategy()
}

// ExcludedSymbol describes a symbol dropped during cleaning.
type ExcludedSymbol struct {
	Symbol   string `json:"symbol"`
	Reason   string `json:"reason"`
	ValidObs int    `json:"valid_obs"`
}

// CleanResult is the output of a cleaning pass: the cleaned matrix plus
// the symbols that did not survive the quality gate.
type CleanResult struct {
	Matrix   *PriceMatrix
	Excluded []ExcludedSymbol
}
