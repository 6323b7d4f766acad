package quant

import (
	"math"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// Rolling computes trailing-window statistics over return series.
// Statistics are defined from the window-th observation onward; a window
// longer than the series yields an empty series, which callers must
// handle explicitly.
type Rolling struct{}

func NewRolling() *Rolling { return &Rolling{} }

// Mean computes the trailing arithmetic mean over window observations.
func (r *Rolling) Mean(s models.Series, window int) models.Series {
	if window <= 0 || len(s) < window {
		return models.Series{}
	}
	out := make(models.Series, 0, len(s)-window+1)
	sum := 0.0
	for i, p := range s {
		sum += p.Value
		if i >= window {
			sum -= s[i-window].Value
		}
		if i >= window-1 {
			out = append(out, models.Point{Date: p.Date, Value: sum / float64(window)})
		}
	}
	return out
}

// VolatilityAnnualized computes the trailing sample standard deviation
// (n-1) over window observations, scaled by sqrt(periodsPerYear).
func (r *Rolling) VolatilityAnnualized(s models.Series, window, periodsPerYear int) models.Series {
	if window <= 1 || len(s) < window {
		return models.Series{}
	}
	scale := math.Sqrt(float64(periodsPerYear))
	out := make(models.Series, 0, len(s)-window+1)
	for i := window - 1; i < len(s); i++ {
		win := make([]float64, window)
		for j := 0; j < window; j++ {
			win[j] = s[i-window+1+j].Value
		}
		out = append(out, models.Point{Date: s[i].Date, Value: sampleStd(win) * scale})
	}
	return out
}

var _ domsvc.RollingStatsEngine = (*Rolling)(nil)
