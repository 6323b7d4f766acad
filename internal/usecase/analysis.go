package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	domsvc "MarketLens/internal/domain/service"
	applogger "MarketLens/pkg/logger"
)

// AnalysisParams are the resolved inputs for one analysis run.
type AnalysisParams struct {
	Symbols        []string
	From           time.Time
	To             time.Time
	Window         int
	RiskFree       float64
	Fill           models.FillStrategy
	MinObs         int
	PeriodsPerYear int
}

// AnalysisUseCase runs the full analytics pipeline for a set of symbols:
// load matrix, clean, then per symbol returns, rolling stats, drawdowns
// and annualized metrics. One symbol failing never sinks its siblings;
// failures land in the result's Errors map keyed by symbol.
type AnalysisUseCase struct {
	store    domrepo.PriceStore
	cleaner  domsvc.PriceCleaner
	returns  domsvc.ReturnsEngine
	rolling  domsvc.RollingStatsEngine
	drawdown domsvc.DrawdownAnalyzer
	annual   domsvc.MetricsEngine

	publisher domrepo.Publisher // optional
	telemetry domrepo.Metrics   // optional
	logger    *applogger.Logger // optional

	timeout time.Duration
}

func NewAnalysisUseCase(
	store domrepo.PriceStore,
	cleaner domsvc.PriceCleaner,
	returns domsvc.ReturnsEngine,
	rolling domsvc.RollingStatsEngine,
	drawdown domsvc.DrawdownAnalyzer,
	annual domsvc.MetricsEngine,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		store:    store,
		cleaner:  cleaner,
		returns:  returns,
		rolling:  rolling,
		drawdown: drawdown,
		annual:   annual,
		timeout:  30 * time.Second,
	}
}

// SetPublisher wires an optional downstream metrics publisher.
func (uc *AnalysisUseCase) SetPublisher(p domrepo.Publisher) { uc.publisher = p }

// SetTelemetry wires an optional operational metrics recorder.
func (uc *AnalysisUseCase) SetTelemetry(m domrepo.Metrics) { uc.telemetry = m }

// SetLogger wires an optional structured logger.
func (uc *AnalysisUseCase) SetLogger(l *applogger.Logger) { uc.logger = l }

// Run executes the pipeline. Alignment failures are fatal for the whole
// run; data-quality and degenerate-input failures are per symbol.
func (uc *AnalysisUseCase) Run(ctx context.Context, p AnalysisParams) (*models.AnalysisResult, error) {
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}
	if p.Window <= 1 {
		p.Window = 20
	}
	if p.MinObs < 2 {
		p.MinObs = 2
	}
	if p.PeriodsPerYear <= 0 {
		p.PeriodsPerYear = 252
	}
	if !models.IsValidFillStrategy(p.Fill) {
		p.Fill = models.DefaultFillStrategy()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()

	matrix, err := uc.store.GetMatrix(ctx, p.Symbols, p.From, p.To)
	if err != nil {
		uc.recordError("store")
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	cleaned, err := uc.cleaner.Clean(matrix, p.Fill, p.MinObs)
	if err != nil {
		uc.recordError("alignment")
		return nil, fmt.Errorf("clean matrix: %w", err)
	}

	res := &models.AnalysisResult{
		From:      p.From,
		To:        p.To,
		Window:    p.Window,
		Timestamp: time.Now().UTC(),
		Symbols:   make(map[string]*models.SymbolAnalysis, len(p.Symbols)),
		Excluded:  cleaned.Excluded,
		Errors:    map[string]string{},
	}

	type item struct {
		symbol string
		sa     *models.SymbolAnalysis
		err    error
	}
	ch := make(chan item, len(cleaned.Matrix.Symbols))
	var wg sync.WaitGroup

	for _, symbol := range cleaned.Matrix.Symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sa, err := uc.analyzeSymbol(symbol, cleaned.Matrix, p)
			ch <- item{symbol: symbol, sa: sa, err: err}
		}(symbol)
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.symbol] = it.err.Error()
			uc.recordError("analysis")
		}
		if it.sa == nil {
			continue
		}
		res.Symbols[it.symbol] = it.sa
		if uc.telemetry != nil {
			uc.telemetry.RecordAnalysis(it.symbol)
			if last := it.sa.Prices.Last(); last.Value > 0 {
				uc.telemetry.RecordLastClose(it.symbol, last.Value)
			}
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}

	uc.publishRecords(ctx, res)

	if uc.telemetry != nil {
		uc.telemetry.RecordLatency("analysis", time.Since(start).Seconds())
	}
	if uc.logger != nil {
		uc.logger.Info("analysis run complete",
			applogger.Strings("symbols", p.Symbols),
			applogger.Int("ok", len(res.Symbols)),
			applogger.Int("excluded", len(res.Excluded)),
			applogger.Int("failed", len(res.Errors)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return res, nil
}

// analyzeSymbol builds all series artifacts for one symbol, then the
// annualized metrics. The series are well-defined even when the metrics
// are not (a constant price has no volatility), so a metrics failure
// returns both the partial analysis and the error.
func (uc *AnalysisUseCase) analyzeSymbol(symbol string, m *models.PriceMatrix, p AnalysisParams) (*models.SymbolAnalysis, error) {
	daily := uc.returns.DailyReturns(m, symbol)
	prices := m.SeriesFor(symbol)
	drawdowns := uc.drawdown.Drawdowns(prices)
	maxDD := uc.drawdown.MaxDrawdown(drawdowns)

	sa := &models.SymbolAnalysis{
		Symbol:            symbol,
		Prices:            prices,
		DailyReturns:      daily,
		CumulativeReturns: uc.returns.CumulativeReturns(daily),
		RollingMean:       uc.rolling.Mean(daily, p.Window),
		RollingVolatility: uc.rolling.VolatilityAnnualized(daily, p.Window, p.PeriodsPerYear),
		Drawdowns:         drawdowns,
		MaxDrawdown:       maxDD,
	}

	record, err := uc.annual.Compute(symbol, daily, p.RiskFree, p.PeriodsPerYear)
	if err != nil {
		return sa, err
	}
	record.MaxDrawdown = maxDD
	sa.Metrics = &record
	return sa, nil
}

// publishRecords ships the run's metrics downstream, best effort. A
// publish failure is logged but never fails the analysis itself.
func (uc *AnalysisUseCase) publishRecords(ctx context.Context, res *models.AnalysisResult) {
	if uc.publisher == nil || len(res.Symbols) == 0 {
		return
	}
	records := make([]models.AnnualMetricsRecord, 0, len(res.Symbols))
	for _, sa := range res.Symbols {
		if sa.Metrics != nil {
			records = append(records, *sa.Metrics)
		}
	}
	if err := uc.publisher.PublishMetrics(ctx, records); err != nil {
		uc.recordError("publish")
		if uc.logger != nil {
			uc.logger.Warn("metrics publish failed", applogger.Error(err))
		}
	}
}

func (uc *AnalysisUseCase) recordError(kind string) {
	if uc.telemetry != nil {
		uc.telemetry.RecordError(kind)
	}
}
