package repository

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
)

// PriceProvider is the external collaborator that supplies raw daily
// bars. Retries and timeouts belong here, not in the analytics core.
type PriceProvider interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}

// PriceStore persists daily bars and reconstructs date-aligned matrices.
type PriceStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, bars []models.PriceBar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.PriceBar, error)
	GetMatrix(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceMatrix, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher ships computed metrics records to downstream consumers.
type Publisher interface {
	PublishMetrics(ctx context.Context, records []models.AnnualMetricsRecord) error
	Close() error
}

// Metrics records operational telemetry for analysis runs.
type Metrics interface {
	RecordAnalysis(symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
