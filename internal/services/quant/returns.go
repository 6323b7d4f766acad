package quant

import (
	"math"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// Returns derives period and cumulative return series from cleaned
// prices. Compounding is multiplicative throughout: cumulative returns
// are running products of (1+r), never additive sums, so long horizons
// do not drift.
type Returns struct{}

func NewReturns() *Returns { return &Returns{} }

// DailyReturns computes simple percentage returns p[t]/p[t-1]-1 for one
// symbol. A return exists only where both prices are present; the first
// observation and anything following a gap stay undefined rather than
// being fabricated as zero.
func (r *Returns) DailyReturns(m *models.PriceMatrix, symbol string) models.Series {
	col := m.Column(symbol)
	if len(col) < 2 {
		return nil
	}
	out := make(models.Series, 0, len(col)-1)
	for i := 1; i < len(col); i++ {
		prev, cur := col[i-1], col[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			continue
		}
		out = append(out, models.Point{Date: m.Dates[i], Value: cur/prev - 1})
	}
	return out
}

// CumulativeReturns compounds a daily return series:
// cum[0] = ret[0], cum[t] = (1+cum[t-1])*(1+ret[t]) - 1.
func (r *Returns) CumulativeReturns(daily models.Series) models.Series {
	if len(daily) == 0 {
		return nil
	}
	out := make(models.Series, len(daily))
	growth := 1.0
	for i, p := range daily {
		growth *= 1 + p.Value
		out[i] = models.Point{Date: p.Date, Value: growth - 1}
	}
	return out
}

var _ domsvc.ReturnsEngine = (*Returns)(nil)
