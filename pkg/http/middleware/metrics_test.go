package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsInFlightReturnsToZero(t *testing.T) {
	e := echo.New()
	e.Use(Metrics(nil, 0))
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	gauge := httpInFlight.WithLabelValues("/ok", http.MethodGet)
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))
}

func TestMetricsInFlightReturnsToZeroAfterPanic(t *testing.T) {
	e := echo.New()
	e.Use(Recover()) // recovery sits outside the metrics middleware
	e.Use(Metrics(nil, 0))
	e.GET("/boom", func(c echo.Context) error {
		panic("handler blew up")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	gauge := httpInFlight.WithLabelValues("/boom", http.MethodGet)
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))
}
