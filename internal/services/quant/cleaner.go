package quant

import (
	"math"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// Cleaner normalizes raw price matrices. Gaps are handled per strategy:
// forward fill from the last valid price (default), drop (leave absent),
// or linear interpolation between valid neighbours. Values before a
// symbol's first valid observation always remain absent; zero-filling
// would corrupt the return calculation downstream.
type Cleaner struct{}

func NewCleaner() *Cleaner { return &Cleaner{} }

func (c *Cleaner) Clean(m *models.PriceMatrix, strategy models.FillStrategy, minObs int) (*models.CleanResult, error) {
	if err := validateAlignment(m); err != nil {
		return nil, err
	}
	if !models.IsValidFillStrategy(strategy) {
		strategy = models.DefaultFillStrategy()
	}

	out := &models.PriceMatrix{
		Dates:   m.Dates,
		Symbols: make([]string, 0, len(m.Symbols)),
		Values:  make(map[string][]float64, len(m.Symbols)),
	}
	excluded := make([]models.ExcludedSymbol, 0)

	for _, sym := range m.Symbols {
		col := fillColumn(m.Values[sym], strategy)
		valid := 0
		for _, v := range col {
			if !math.IsNaN(v) {
				valid++
			}
		}
		if valid < minObs {
			qerr := &DataQualityError{Symbol: sym, ValidObs: valid, Required: minObs}
			excluded = append(excluded, models.ExcludedSymbol{
				Symbol:   sym,
				Reason:   qerr.Error(),
				ValidObs: valid,
			})
			continue
		}
		out.Symbols = append(out.Symbols, sym)
		out.Values[sym] = col
	}

	return &models.CleanResult{Matrix: out, Excluded: excluded}, nil
}

func validateAlignment(m *models.PriceMatrix) error {
	for i := 1; i < len(m.Dates); i++ {
		if !m.Dates[i].After(m.Dates[i-1]) {
			detail := "dates not strictly increasing"
			if m.Dates[i].Equal(m.Dates[i-1]) {
				detail = "duplicate date"
			}
			return &AlignmentError{Index: i, Detail: detail}
		}
	}
	return nil
}

// fillColumn applies the gap strategy to a copy of col.
func fillColumn(col []float64, strategy models.FillStrategy) []float64 {
	out := make([]float64, len(col))
	copy(out, col)

	switch strategy {
	case models.FillDrop:
		// gaps stay absent; downstream skips undefined positions
	case models.FillInterpolate:
		interpolateGaps(out)
	default: // forward
		last := math.NaN()
		for i, v := range out {
			if !math.IsNaN(v) {
				last = v
				continue
			}
			if !math.IsNaN(last) {
				out[i] = last
			}
		}
	}
	return out
}

// interpolateGaps fills interior gaps linearly between the surrounding
// valid observations. Leading and trailing gaps remain absent.
func interpolateGaps(col []float64) {
	prev := -1
	for i := 0; i < len(col); i++ {
		if math.IsNaN(col[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (col[i] - col[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				col[j] = col[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
}

var _ domsvc.PriceCleaner = (*Cleaner)(nil)
