package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	models "MarketLens/internal/domain/models"
	icache "MarketLens/internal/service/cache"
	"MarketLens/internal/services/quant"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalyticsEchoHandler exposes the analytics pipeline over HTTP.
type AnalyticsEchoHandler struct {
	logger   *xlogger.Logger
	analysis *usecase.AnalysisUseCase
	report   *usecase.ReportUseCase
	prices   *usecase.PricesUseCase
	ingest   *usecase.IngestUseCase

	cache    icache.BytesCache // optional, report responses only
	cacheTTL time.Duration

	defaults AnalysisDefaults
}

// AnalysisDefaults carries the configured fallbacks for analysis
// parameters the request leaves unset.
type AnalysisDefaults struct {
	Lookback       time.Duration
	PeriodsPerYear int
	Window         int
	MinObs         int
	RiskFree       float64
	Fill           models.FillStrategy
}

func NewAnalyticsEchoHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	report *usecase.ReportUseCase,
	prices *usecase.PricesUseCase,
	ingest *usecase.IngestUseCase,
) *AnalyticsEchoHandler {
	return &AnalyticsEchoHandler{
		logger:   logger,
		analysis: analysis,
		report:   report,
		prices:   prices,
		ingest:   ingest,
		defaults: AnalysisDefaults{
			Lookback:       2 * 365 * 24 * time.Hour,
			PeriodsPerYear: 252,
			Window:         20,
			MinObs:         2,
			RiskFree:       0,
			Fill:           models.DefaultFillStrategy(),
		},
	}
}

// SetCache wires an optional response cache for /api/report.
func (h *AnalyticsEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// SetAnalysisDefaults overrides the built-in fallbacks with configured ones.
func (h *AnalyticsEchoHandler) SetAnalysisDefaults(d AnalysisDefaults) {
	if d.Lookback > 0 {
		h.defaults.Lookback = d.Lookback
	}
	if d.PeriodsPerYear > 0 {
		h.defaults.PeriodsPerYear = d.PeriodsPerYear
	}
	if d.Window > 1 {
		h.defaults.Window = d.Window
	}
	if d.MinObs >= 2 {
		h.defaults.MinObs = d.MinObs
	}
	if d.RiskFree > 0 {
		h.defaults.RiskFree = d.RiskFree
	}
	if models.IsValidFillStrategy(d.Fill) {
		h.defaults.Fill = d.Fill
	}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/prices", h.Prices)
	g.GET("/analysis", h.Analysis)
	g.GET("/returns", h.Returns)
	g.GET("/rolling", h.Rolling)
	g.GET("/drawdown", h.Drawdown)
	g.GET("/metrics", h.Metrics)
	g.GET("/report", h.Report)
	g.POST("/ingest", h.Ingest)
}

func (h *AnalyticsEchoHandler) Prices(c echo.Context) error {
	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to := h.timeRange(req.From, req.To)

	symbols := util.SplitSymbols(req.Symbols)
	out := make(map[string][]models.PriceBar, len(symbols))
	for _, symbol := range symbols {
		bars, err := h.prices.GetBars(c.Request().Context(), symbol, from, to, req.Limit)
		if err != nil {
			h.logger.Error("prices usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		out[symbol] = bars
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *AnalyticsEchoHandler) Analysis(c echo.Context) error {
	res, err := h.runAnalysis(c)
	if err != nil {
		return h.analysisError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Returns(c echo.Context) error {
	res, err := h.runAnalysis(c)
	if err != nil {
		return h.analysisError(c, err)
	}
	type symbolReturns struct {
		Daily      models.Series `json:"daily"`
		Cumulative models.Series `json:"cumulative"`
	}
	out := make(map[string]symbolReturns, len(res.Symbols))
	for symbol, sa := range res.Symbols {
		out[symbol] = symbolReturns{Daily: sa.DailyReturns, Cumulative: sa.CumulativeReturns}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"returns": out,
		"errors":  res.Errors,
	})
}

func (h *AnalyticsEchoHandler) Rolling(c echo.Context) error {
	res, err := h.runAnalysis(c)
	if err != nil {
		return h.analysisError(c, err)
	}
	type symbolRolling struct {
		Mean       models.Series `json:"mean"`
		Volatility models.Series `json:"volatility"`
	}
	out := make(map[string]symbolRolling, len(res.Symbols))
	for symbol, sa := range res.Symbols {
		out[symbol] = symbolRolling{Mean: sa.RollingMean, Volatility: sa.RollingVolatility}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"window":  res.Window,
		"rolling": out,
		"errors":  res.Errors,
	})
}

func (h *AnalyticsEchoHandler) Drawdown(c echo.Context) error {
	res, err := h.runAnalysis(c)
	if err != nil {
		return h.analysisError(c, err)
	}
	type symbolDrawdown struct {
		Drawdowns   models.Series `json:"drawdowns"`
		MaxDrawdown float64       `json:"max_drawdown"`
	}
	out := make(map[string]symbolDrawdown, len(res.Symbols))
	for symbol, sa := range res.Symbols {
		out[symbol] = symbolDrawdown{Drawdowns: sa.Drawdowns, MaxDrawdown: sa.MaxDrawdown}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"drawdowns": out,
		"errors":    res.Errors,
	})
}

func (h *AnalyticsEchoHandler) Metrics(c echo.Context) error {
	res, err := h.runAnalysis(c)
	if err != nil {
		return h.analysisError(c, err)
	}
	out := make(map[string]*models.AnnualMetricsRecord, len(res.Symbols))
	for symbol, sa := range res.Symbols {
		out[symbol] = sa.Metrics
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"metrics":  out,
		"excluded": res.Excluded,
		"errors":   res.Errors,
	})
}

func (h *AnalyticsEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to := h.timeRange(req.From, req.To)
	riskFree := h.riskFreeOrDefault(req.RiskFree)

	// every parameter that shapes the numbers must be in the key
	key := fmt.Sprintf("report:%s:%s:%s:rf=%g",
		req.Symbols, from.Format("2006-01-02"), to.Format("2006-01-02"), riskFree)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(key); err == nil && ok {
			var cached models.Report
			if err := json.Unmarshal(b, &cached); err == nil {
				return xhttp.SuccessResponse(c, &cached)
			}
		}
	}

	p := usecase.AnalysisParams{
		Symbols:        util.SplitSymbols(req.Symbols),
		From:           from,
		To:             to,
		RiskFree:       riskFree,
		PeriodsPerYear: h.defaults.PeriodsPerYear,
	}
	rep, err := h.report.Build(c.Request().Context(), p)
	if err != nil {
		return h.analysisError(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(rep); err == nil {
			_ = h.cache.SetBytes(key, b, h.cacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, rep)
}

func (h *AnalyticsEchoHandler) Ingest(c echo.Context) error {
	req := &models.IngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to := h.timeRange(req.From, req.To)

	res, err := h.ingest.Ingest(c.Request().Context(), util.SplitSymbols(req.Symbols), from, to)
	if err != nil {
		h.logger.Error("ingest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) runAnalysis(c echo.Context) (*models.AnalysisResult, error) {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return nil, &validationFailure{payload: verr}
	}
	from, to := h.timeRange(req.From, req.To)

	window := req.Window
	if window == 0 {
		window = h.defaults.Window
	}
	minObs := req.MinObs
	if minObs == 0 {
		minObs = h.defaults.MinObs
	}
	fill := models.FillStrategy(req.Fill)
	if req.Fill == "" {
		fill = h.defaults.Fill
	}

	p := usecase.AnalysisParams{
		Symbols:        util.SplitSymbols(req.Symbols),
		From:           from,
		To:             to,
		Window:         window,
		RiskFree:       h.riskFreeOrDefault(req.RiskFree),
		Fill:           fill,
		MinObs:         minObs,
		PeriodsPerYear: h.defaults.PeriodsPerYear,
	}
	return h.analysis.Run(c.Request().Context(), p)
}

// validationFailure carries the validator payload through the error path.
type validationFailure struct {
	payload interface{}
}

func (v *validationFailure) Error() string { return "request validation failed" }

func (h *AnalyticsEchoHandler) analysisError(c echo.Context, err error) error {
	var vf *validationFailure
	if errors.As(err, &vf) {
		return xhttp.BadRequestResponse(c, vf.payload)
	}
	var alignErr *quant.AlignmentError
	if errors.As(err, &alignErr) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(alignErr.Error()).WithError(err))
	}
	h.logger.Error("analysis usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func (h *AnalyticsEchoHandler) timeRange(fromRaw, toRaw string) (time.Time, time.Time) {
	to := util.ParseTimeDefault(toRaw, time.Now().UTC())
	from := util.ParseTimeDefault(fromRaw, to.Add(-h.defaults.Lookback))
	return util.AlignDateRange(from, to)
}

// riskFreeOrDefault falls back to the configured rate when the request
// does not carry one. Query params cannot distinguish rf=0 from absent,
// so an explicit zero uses the configured rate too.
func (h *AnalyticsEchoHandler) riskFreeOrDefault(rf float64) float64 {
	if rf == 0 {
		return h.defaults.RiskFree
	}
	return rf
}
