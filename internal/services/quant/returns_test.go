package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReturnsScenario(t *testing.T) {
	m := matrixOf("AAPL", []float64{100, 102, 101, 105})

	daily := NewReturns().DailyReturns(m, "AAPL")
	require.Len(t, daily, 3)
	assert.InDelta(t, 0.02, daily[0].Value, 1e-12)
	assert.InDelta(t, -0.009803921568627416, daily[1].Value, 1e-12)
	assert.InDelta(t, 0.039603960396039604, daily[2].Value, 1e-12)
	assert.Equal(t, day(1), daily[0].Date, "first date has no return")
}

func TestDailyReturnsPropagateAbsence(t *testing.T) {
	m := matrixOf("AAPL", []float64{nan, 100, nan, 105, 110})

	daily := NewReturns().DailyReturns(m, "AAPL")
	// defined only at index 4: both 105 and 110 present
	require.Len(t, daily, 1)
	assert.Equal(t, day(4), daily[0].Date)
	assert.InDelta(t, 110.0/105.0-1, daily[0].Value, 1e-12)
}

func TestCumulativeReturnsCompoundMultiplicatively(t *testing.T) {
	m := matrixOf("AAPL", []float64{100, 102, 101, 105})
	eng := NewReturns()

	daily := eng.DailyReturns(m, "AAPL")
	cum := eng.CumulativeReturns(daily)
	require.Len(t, cum, 3)

	// cum[0] seeds from ret[0]
	assert.InDelta(t, daily[0].Value, cum[0].Value, 1e-12)
	// final cumulative return equals price[t]/price[0] - 1 exactly
	assert.InDelta(t, 0.05, cum[2].Value, 1e-12)
}

func TestCumulativeMatchesDirectPriceRatio(t *testing.T) {
	prices := []float64{87.3, 91.1, 84.6, 99.2, 103.7, 98.4}
	m := matrixOf("TSLA", prices)
	eng := NewReturns()

	cum := eng.CumulativeReturns(eng.DailyReturns(m, "TSLA"))
	require.Len(t, cum, len(prices)-1)
	for i := range cum {
		assert.InDelta(t, prices[i+1]/prices[0]-1, cum[i].Value, 1e-12)
	}
}

func TestCumulativeReturnsEmpty(t *testing.T) {
	assert.Nil(t, NewReturns().CumulativeReturns(nil))
}
