package quant

import (
	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// Drawdown tracks peak-to-trough declines over a price series. One
// forward pass per symbol with a scalar running maximum; O(n) time,
// O(1) auxiliary state.
type Drawdown struct{}

func NewDrawdown() *Drawdown { return &Drawdown{} }

// Drawdowns computes dd[t] = price[t]/peak[t] - 1 where peak is the
// running maximum updated before each step, so every new peak (and the
// first observation) has drawdown exactly 0.
func (d *Drawdown) Drawdowns(prices models.Series) models.Series {
	if len(prices) == 0 {
		return nil
	}
	out := make(models.Series, len(prices))
	peak := prices[0].Value
	for i, p := range prices {
		if p.Value > peak {
			peak = p.Value
		}
		out[i] = models.Point{Date: p.Date, Value: p.Value/peak - 1}
	}
	return out
}

// MaxDrawdown returns the most negative drawdown, 0 for a series that
// never declines from its peak.
func (d *Drawdown) MaxDrawdown(drawdowns models.Series) float64 {
	min := 0.0
	for _, p := range drawdowns {
		if p.Value < min {
			min = p.Value
		}
	}
	return min
}

var _ domsvc.DrawdownAnalyzer = (*Drawdown)(nil)
