package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency
// and reuse. Symbols is a comma-separated list; From/To accept RFC3339 or
// unix seconds and default to the configured lookback when empty.

type PricesRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
	Limit   int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}

// AnalysisRequest's tunables are optional; zero values fall back to the
// configured analysis defaults at the handler.
type AnalysisRequest struct {
	Symbols  string  `query:"symbols" json:"symbols" validate:"required"`
	From     string  `query:"from" json:"from"`
	To       string  `query:"to" json:"to"`
	Window   int     `query:"window" json:"window" validate:"omitempty,gte=2,lte=252"`
	RiskFree float64 `query:"rf" json:"rf" validate:"gte=0,lte=1"`
	Fill     string  `query:"fill" json:"fill" validate:"omitempty,oneof=forward drop interpolate"`
	MinObs   int     `query:"min_obs" json:"min_obs" validate:"omitempty,gte=2,lte=10000"`
}

type ReportRequest struct {
	Symbols  string  `query:"symbols" json:"symbols" validate:"required"`
	From     string  `query:"from" json:"from"`
	To       string  `query:"to" json:"to"`
	RiskFree float64 `query:"rf" json:"rf" validate:"gte=0,lte=1"`
}

type IngestRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
}
