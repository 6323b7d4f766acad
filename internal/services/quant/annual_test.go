package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualMetricsCompute(t *testing.T) {
	daily := seriesOf(0.01, -0.005, 0.02, 0.003)

	rec, err := NewAnnualMetrics().Compute("AAPL", daily, 0.0, 252)
	require.NoError(t, err)

	rets := daily.Values()
	assert.InDelta(t, mean(rets)*252, rec.AnnualReturn, 1e-12)
	assert.InDelta(t, sampleStd(rets)*math.Sqrt(252), rec.AnnualVolatility, 1e-12)
	assert.InDelta(t, rec.AnnualReturn/rec.AnnualVolatility, rec.SharpeRatio, 1e-12)
	assert.InDelta(t, 1.01*0.995*1.02*1.003-1, rec.TotalReturn, 1e-12)
	assert.Equal(t, 4, rec.Observations)
	assert.False(t, math.IsNaN(rec.SharpeRatio) || math.IsInf(rec.SharpeRatio, 0))
}

func TestAnnualMetricsRiskFreeOffsetsSharpe(t *testing.T) {
	daily := seriesOf(0.01, -0.005, 0.02, 0.003)
	eng := NewAnnualMetrics()

	base, err := eng.Compute("AAPL", daily, 0.0, 252)
	require.NoError(t, err)
	offset, err := eng.Compute("AAPL", daily, 0.02, 252)
	require.NoError(t, err)

	assert.InDelta(t, base.SharpeRatio-0.02/base.AnnualVolatility, offset.SharpeRatio, 1e-12)
}

func TestAnnualMetricsDegenerateOnConstantPrices(t *testing.T) {
	// constant price [50,50,50,50] -> daily returns all zero
	m := matrixOf("FLAT", []float64{50, 50, 50, 50})
	daily := NewReturns().DailyReturns(m, "FLAT")

	_, err := NewAnnualMetrics().Compute("FLAT", daily, 0.0, 252)
	var degen *DegenerateInputError
	require.ErrorAs(t, err, &degen)
	assert.Equal(t, "FLAT", degen.Symbol)
}

func TestAnnualMetricsEmptySeries(t *testing.T) {
	_, err := NewAnnualMetrics().Compute("EMPTY", nil, 0.0, 252)
	var qerr *DataQualityError
	assert.ErrorAs(t, err, &qerr)
}

func TestSharpeScaleInvariantUnderPriceShift(t *testing.T) {
	base := []float64{100, 102, 101, 105, 103}
	scaled := make([]float64, len(base))
	for i, p := range base {
		scaled[i] = p * 7.5
	}
	eng := NewAnnualMetrics()
	ret := NewReturns()

	recA, err := eng.Compute("A", ret.DailyReturns(matrixOf("A", base), "A"), 0.0, 252)
	require.NoError(t, err)
	recB, err := eng.Compute("B", ret.DailyReturns(matrixOf("B", scaled), "B"), 0.0, 252)
	require.NoError(t, err)

	assert.InDelta(t, recA.SharpeRatio, recB.SharpeRatio, 1e-9)
}
