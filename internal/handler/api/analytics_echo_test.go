package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/services/quant"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	matrix *models.PriceMatrix
}

func (s *stubStore) Init(ctx context.Context) error { return nil }
func (s *stubStore) Health(ctx context.Context) error { return nil }
func (s *stubStore) Close() error { return nil }

func (s *stubStore) StoreBatch(ctx context.Context, bars []models.PriceBar) error { return nil }

func (s *stubStore) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.PriceBar, error) {
	return nil, nil
}

func (s *stubStore) GetMatrix(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceMatrix, error) {
	return s.matrix, nil
}

func newTestHandler(t *testing.T, store *stubStore) *AnalyticsEchoHandler {
	t.Helper()
	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	analysis := usecase.NewAnalysisUseCase(
		store,
		quant.NewCleaner(),
		quant.NewReturns(),
		quant.NewRolling(),
		quant.NewDrawdown(),
		quant.NewAnnualMetrics(),
	)
	return NewAnalyticsEchoHandler(
		logger,
		analysis,
		usecase.NewReportUseCase(analysis),
		usecase.NewPricesUseCase(store),
		nil,
	)
}

func testMatrix() *models.PriceMatrix {
	dates := make([]time.Time, 6)
	for i := range dates {
		dates[i] = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}
	m := models.NewPriceMatrix(dates, []string{"AAPL"})
	copy(m.Values["AAPL"], []float64{100, 102, 101, 105, 103, 108})
	return m
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, &stubStore{matrix: testMatrix()})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/metrics?symbols=AAPL&window=3", nil)
	rec := httptest.NewRecorder()

	err := h.Metrics(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)

	payload, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	metrics, ok := payload["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, metrics, "AAPL")
}

func TestMetricsEndpointRequiresSymbols(t *testing.T) {
	h := newTestHandler(t, &stubStore{matrix: testMatrix()})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()

	err := h.Metrics(e.NewContext(req, rec))
	require.NoError(t, err)

	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestReportEndpointUsesCache(t *testing.T) {
	h := newTestHandler(t, &stubStore{matrix: testMatrix()})
	cache := &memCache{m: map[string][]byte{}}
	h.SetCache(cache, time.Minute)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/report?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Report(e.NewContext(req, rec)))
	assert.Equal(t, 1, cache.sets)

	req = httptest.NewRequest(http.MethodGet, "/api/report?symbols=AAPL", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Report(e.NewContext(req, rec)))
	assert.Equal(t, 1, cache.sets) // second call served from cache
	assert.GreaterOrEqual(t, cache.hits, 1)
}

func TestReportCacheKeyVariesWithRiskFree(t *testing.T) {
	h := newTestHandler(t, &stubStore{matrix: testMatrix()})
	cache := &memCache{m: map[string][]byte{}}
	h.SetCache(cache, time.Minute)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/report?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Report(e.NewContext(req, rec)))

	// a different risk-free rate changes the Sharpe ratio, so it must
	// never be served from the rf-less entry
	req = httptest.NewRequest(http.MethodGet, "/api/report?symbols=AAPL&rf=0.5", nil)
	rec2 := httptest.NewRecorder()
	require.NoError(t, h.Report(e.NewContext(req, rec2)))

	assert.Equal(t, 2, cache.sets)
	assert.Equal(t, 0, cache.hits)
	assert.NotEqual(t, reportSharpe(t, rec.Body.Bytes()), reportSharpe(t, rec2.Body.Bytes()))
}

func TestConfiguredDefaultsApplyToRequests(t *testing.T) {
	h := newTestHandler(t, &stubStore{matrix: testMatrix()})
	h.SetAnalysisDefaults(AnalysisDefaults{Window: 3, RiskFree: 0.02})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rolling?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Rolling(e.NewContext(req, rec)))

	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	payload, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), payload["window"], "configured window must back an unset request")

	// an explicit window still wins over the configured one
	req = httptest.NewRequest(http.MethodGet, "/api/rolling?symbols=AAPL&window=4", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Rolling(e.NewContext(req, rec)))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	payload, ok = body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(4), payload["window"])
}

func reportSharpe(t *testing.T, raw []byte) float64 {
	t.Helper()
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	payload, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	records, ok := payload["records"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, records)
	rec, ok := records[0].(map[string]interface{})
	require.True(t, ok)
	sharpe, ok := rec["sharpe_ratio"].(float64)
	require.True(t, ok)
	return sharpe
}

type memCache struct {
	m    map[string][]byte
	sets int
	hits int
}

func (c *memCache) GetBytes(key string) ([]byte, bool, error) {
	b, ok := c.m[key]
	if ok {
		c.hits++
	}
	return b, ok, nil
}

func (c *memCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	c.m[key] = value
	c.sets++
	return nil
}
