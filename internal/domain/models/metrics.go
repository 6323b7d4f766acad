package models

import "time"

// AnnualMetricsRecord carries annualized performance statistics for one
// symbol. Computed once per analysis run and immutable afterwards.
type AnnualMetricsRecord struct {
	Symbol           string    `json:"symbol"`
	AnnualReturn     float64   `json:"annual_return"`
	AnnualVolatility float64   `json:"annual_volatility"`
	SharpeRatio      float64   `json:"sharpe_ratio"`
	TotalReturn      float64   `json:"total_return"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	Observations     int       `json:"observations"`
	ComputedAt       time.Time `json:"computed_at"`
}

// SymbolAnalysis bundles every per-symbol artifact of one analysis run.
type SymbolAnalysis struct {
	Symbol            string  `json:"symbol"`
	Prices            Series  `json:"prices,omitempty"`
	DailyReturns      Series  `json:"daily_returns,omitempty"`
	CumulativeReturns Series  `json:"cumulative_returns,omitempty"`
	RollingMean       Series  `json:"rolling_mean,omitempty"`
	RollingVolatility Series  `json:"rolling_volatility,omitempty"`
	Drawdowns         Series  `json:"drawdowns,omitempty"`
	MaxDrawdown       float64 `json:"max_drawdown"`

	Metrics *AnnualMetricsRecord `json:"metrics,omitempty"`
}

// AnalysisResult is the full output of an analysis run. Per-symbol
// failures land in Errors keyed by symbol; successful siblings are kept.
type AnalysisResult struct {
	From      time.Time                  `json:"from"`
	To        time.Time                  `json:"to"`
	Window    int                        `json:"window"`
	Timestamp time.Time                  `json:"timestamp"`
	Symbols   map[string]*SymbolAnalysis `json:"symbols"`
	Excluded  []ExcludedSymbol           `json:"excluded,omitempty"`
	Errors    map[string]string          `json:"errors,omitempty"`
}
