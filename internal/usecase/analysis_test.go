package usecase

import (
	"context"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/services/quant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysisForTest(store *fakeStore) *AnalysisUseCase {
	return NewAnalysisUseCase(
		store,
		quant.NewCleaner(),
		quant.NewReturns(),
		quant.NewRolling(),
		quant.NewDrawdown(),
		quant.NewAnnualMetrics(),
	)
}

func defaultParams(symbols ...string) AnalysisParams {
	return AnalysisParams{
		Symbols:        symbols,
		From:           day(0),
		To:             day(30),
		Window:         3,
		Fill:           models.FillForward,
		MinObs:         2,
		PeriodsPerYear: 252,
	}
}

func TestAnalysisRunComputesAllArtifacts(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"AAPL": {100, 102, 101, 105, 103, 108},
	})}
	uc := newAnalysisForTest(store)

	res, err := uc.Run(context.Background(), defaultParams("AAPL"))
	require.NoError(t, err)
	require.Contains(t, res.Symbols, "AAPL")

	sa := res.Symbols["AAPL"]
	assert.Len(t, sa.Prices, 6)
	assert.Len(t, sa.DailyReturns, 5)
	assert.Len(t, sa.CumulativeReturns, 5)
	assert.Len(t, sa.Drawdowns, 6)
	assert.Len(t, sa.RollingMean, 3) // window 3 over 5 returns
	require.NotNil(t, sa.Metrics)
	assert.Equal(t, "AAPL", sa.Metrics.Symbol)
	assert.InDelta(t, sa.MaxDrawdown, sa.Metrics.MaxDrawdown, 1e-12)
	assert.Empty(t, res.Errors)
}

func TestAnalysisRunPartialFailureKeepsSiblings(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"AAPL": {100, 102, 101, 105, 103, 108},
		"FLAT": {50, 50, 50, 50, 50, 50},
	})}
	uc := newAnalysisForTest(store)

	res, err := uc.Run(context.Background(), defaultParams("AAPL", "FLAT"))
	require.NoError(t, err)

	assert.Contains(t, res.Symbols, "AAPL")
	require.Contains(t, res.Errors, "FLAT")
	assert.Contains(t, res.Errors["FLAT"], "degenerate")
}

func TestAnalysisRunDegenerateSymbolKeepsSeries(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"FLAT": {50, 50, 50, 50, 50, 50},
	})}
	uc := newAnalysisForTest(store)

	res, err := uc.Run(context.Background(), defaultParams("FLAT"))
	require.NoError(t, err)

	// a constant price has no volatility, so metrics fail; the series
	// artifacts are still well-defined and must survive
	require.Contains(t, res.Symbols, "FLAT")
	sa := res.Symbols["FLAT"]
	assert.Nil(t, sa.Metrics)
	assert.Len(t, sa.Prices, 6)
	assert.Len(t, sa.DailyReturns, 5)
	assert.Len(t, sa.CumulativeReturns, 5)
	assert.Len(t, sa.Drawdowns, 6)
	assert.Equal(t, 0.0, sa.MaxDrawdown)
	require.Contains(t, res.Errors, "FLAT")
	assert.Contains(t, res.Errors["FLAT"], "degenerate")
}

func TestAnalysisRunExcludesSparseSymbol(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"AAPL":   {100, 102, 101, 105, 103, 108},
		"SPARSE": {nan, nan, nan, nan, nan, 42},
	})}
	uc := newAnalysisForTest(store)

	res, err := uc.Run(context.Background(), defaultParams("AAPL", "SPARSE"))
	require.NoError(t, err)

	assert.Contains(t, res.Symbols, "AAPL")
	assert.NotContains(t, res.Symbols, "SPARSE")
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "SPARSE", res.Excluded[0].Symbol)
	assert.Equal(t, 1, res.Excluded[0].ValidObs)
	assert.NotContains(t, res.Errors, "SPARSE")
}

func TestAnalysisRunAlignmentErrorIsFatal(t *testing.T) {
	m := matrixFor(map[string][]float64{"AAPL": {100, 102, 101}})
	m.Dates[2] = m.Dates[1] // duplicate date breaks the axis
	store := &fakeStore{matrix: m}
	uc := newAnalysisForTest(store)

	_, err := uc.Run(context.Background(), defaultParams("AAPL"))
	var alignErr *quant.AlignmentError
	require.ErrorAs(t, err, &alignErr)
}

func TestAnalysisRunPublishesSuccessfulRecords(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"AAPL": {100, 102, 101, 105, 103, 108},
		"FLAT": {50, 50, 50, 50, 50, 50},
	})}
	uc := newAnalysisForTest(store)
	pub := &fakePublisher{}
	uc.SetPublisher(pub)

	res, err := uc.Run(context.Background(), defaultParams("AAPL", "FLAT"))
	require.NoError(t, err)
	require.Contains(t, res.Symbols, "AAPL")

	require.Len(t, pub.records, 1)
	assert.Equal(t, "AAPL", pub.records[0].Symbol)
}

func TestAnalysisRunPublishFailureDoesNotFailRun(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"AAPL": {100, 102, 101, 105, 103, 108},
	})}
	uc := newAnalysisForTest(store)
	uc.SetPublisher(&fakePublisher{err: context.DeadlineExceeded})

	res, err := uc.Run(context.Background(), defaultParams("AAPL"))
	require.NoError(t, err)
	assert.Contains(t, res.Symbols, "AAPL")
}

func TestReportRankings(t *testing.T) {
	store := &fakeStore{matrix: matrixFor(map[string][]float64{
		"UP":   {100, 102, 101, 105, 107, 110},
		"DOWN": {100, 95, 96, 88, 84, 80},
	})}
	report := NewReportUseCase(newAnalysisForTest(store))

	rep, err := report.Build(context.Background(), defaultParams("UP", "DOWN"))
	require.NoError(t, err)
	require.Len(t, rep.Records, 2)

	require.NotNil(t, rep.TopReturn)
	assert.Equal(t, "UP", rep.TopReturn.Symbol)
	require.NotNil(t, rep.BestSharpe)
	assert.Equal(t, "UP", rep.BestSharpe.Symbol)
	require.NotNil(t, rep.WorstDrawdown)
	assert.Equal(t, "DOWN", rep.WorstDrawdown.Symbol)
	assert.Less(t, rep.WorstDrawdown.Value, 0.0)
	require.NotNil(t, rep.LowestVolatility)
	assert.Greater(t, rep.LowestVolatility.Value, 0.0)
}

func TestIngestPartialFailure(t *testing.T) {
	provider := &fakeProvider{
		bars: map[string][]models.PriceBar{
			"AAPL": {
				{Symbol: "AAPL", Date: day(0), Close: 100},
				{Symbol: "AAPL", Date: day(1), Close: 102},
			},
		},
		bad: map[string]bool{"BROKEN": true},
	}
	store := &fakeStore{}
	uc := NewIngestUseCase(provider, store)

	res, err := uc.Ingest(context.Background(), []string{"AAPL", "BROKEN"}, day(0), day(1))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stored["AAPL"])
	assert.Contains(t, res.Errors, "BROKEN")
	assert.Len(t, store.stored, 2)
}

func TestPricesDefaultsRange(t *testing.T) {
	store := &fakeStore{bars: []models.PriceBar{
		{Symbol: "AAPL", Date: day(0), Close: 100},
		{Symbol: "AAPL", Date: day(1), Close: 102},
	}}
	uc := NewPricesUseCase(store)

	bars, err := uc.GetBars(context.Background(), "AAPL", time.Time{}, time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	_, err = uc.GetBars(context.Background(), "", time.Time{}, time.Time{}, 0)
	assert.Error(t, err)
}
