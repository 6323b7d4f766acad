package service

import "MarketLens/internal/domain/models"

// PriceCleaner normalizes a raw price matrix: alignment validation,
// gap handling per the chosen strategy, and the minimum-observation
// quality gate. Pure transform; the input matrix is never mutated.
type PriceCleaner interface {
	Clean(m *models.PriceMatrix, strategy models.FillStrategy, minObs int) (*models.CleanResult, error)
}

// ReturnsEngine derives period and cumulative returns from cleaned prices.
type ReturnsEngine interface {
	DailyReturns(m *models.PriceMatrix, symbol string) models.Series
	CumulativeReturns(daily models.Series) models.Series
}

// RollingStatsEngine computes trailing-window statistics over a return
// series. Volatility is the sample standard deviation (n-1), annualized
// by sqrt(periodsPerYear). A window longer than the series yields an
// empty series.
type RollingStatsEngine interface {
	Mean(s models.Series, window int) models.Series
	VolatilityAnnualized(s models.Series, window, periodsPerYear int) models.Series
}

// DrawdownAnalyzer computes peak-relative decline series from price levels.
type DrawdownAnalyzer interface {
	Drawdowns(prices models.Series) models.Series
	MaxDrawdown(drawdowns models.Series) float64
}

// MetricsEngine aggregates annualized return, volatility, and Sharpe
// ratio per symbol from daily returns.
type MetricsEngine interface {
	Compute(symbol string, daily models.Series, riskFree float64, periodsPerYear int) (models.AnnualMetricsRecord, error)
}
