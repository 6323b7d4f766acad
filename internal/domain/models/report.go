package models

import "time"

// Finding names the symbol that won a ranking and the value that won it.
type Finding struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

// Report summarizes an analysis run for presentation consumers. The
// rankings are pure comparisons over the metrics records; no additional
// computation happens here.
type Report struct {
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	GeneratedAt time.Time             `json:"generated_at"`
	Records     []AnnualMetricsRecord `json:"records"`

	TopReturn        *Finding `json:"top_return,omitempty"`
	BestSharpe       *Finding `json:"best_sharpe,omitempty"`
	LowestVolatility *Finding `json:"lowest_volatility,omitempty"`
	WorstDrawdown    *Finding `json:"worst_drawdown,omitempty"`

	Excluded []ExcludedSymbol  `json:"excluded,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}
