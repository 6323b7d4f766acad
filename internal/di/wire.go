//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideTelemetry,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvidePriceStore,
		ProvidePriceProvider,
		ProvideMetricsPublisher,

		// Analytics engines
		ProvideCleaner,
		ProvideReturns,
		ProvideRolling,
		ProvideDrawdown,
		ProvideAnnualMetrics,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideReportUseCase,
		ProvidePricesUseCase,
		ProvideIngestUseCase,

		// HTTP surface
		ProvideReportCache,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
