package quant

import (
	"math"
	"time"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
)

// AnnualMetrics aggregates annualized return, volatility, and Sharpe
// ratio from a daily return series.
type AnnualMetrics struct{}

func NewAnnualMetrics() *AnnualMetrics { return &AnnualMetrics{} }

// Compute produces one record per call:
//
//	annual_return = mean(daily) * periodsPerYear
//	annual_vol    = sampleStd(daily) * sqrt(periodsPerYear)
//	sharpe        = (annual_return - riskFree) / annual_vol
//
// Zero volatility (a constant price series) makes the Sharpe ratio
// undefined and yields a DegenerateInputError instead of Inf or NaN, so
// consumers never see non-finite values. An empty series yields a
// DataQualityError.
func (a *AnnualMetrics) Compute(symbol string, daily models.Series, riskFree float64, periodsPerYear int) (models.AnnualMetricsRecord, error) {
	if len(daily) == 0 {
		return models.AnnualMetricsRecord{}, &DataQualityError{Symbol: symbol, ValidObs: 0, Required: 1}
	}

	rets := daily.Values()
	annReturn := mean(rets) * float64(periodsPerYear)
	annVol := sampleStd(rets) * math.Sqrt(float64(periodsPerYear))
	if annVol == 0 {
		return models.AnnualMetricsRecord{}, &DegenerateInputError{
			Symbol: symbol,
			Detail: "zero volatility, sharpe ratio undefined",
		}
	}

	total := 1.0
	for _, r := range rets {
		total *= 1 + r
	}

	return models.AnnualMetricsRecord{
		Symbol:           symbol,
		AnnualReturn:     annReturn,
		AnnualVolatility: annVol,
		SharpeRatio:      (annReturn - riskFree) / annVol,
		TotalReturn:      total - 1,
		Observations:     len(rets),
		ComputedAt:       time.Now().UTC(),
	}, nil
}

var _ domsvc.MetricsEngine = (*AnnualMetrics)(nil)
