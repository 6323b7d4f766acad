package di

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/handler/api"
	internalrepo "MarketLens/internal/repository"
	icache "MarketLens/internal/service/cache"
	"MarketLens/internal/service/marketdata"
	"MarketLens/internal/services/quant"
	"MarketLens/internal/usecase"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePriceStore creates the daily-bar store and ensures its schema.
func ProvidePriceStore(chClient *pkgch.Client, logger *applogger.Logger) (domrepo.PriceStore, error) {
	store := internalrepo.NewCHPriceStore(chClient)
	store.SetLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("price store schema: %w", err)
	}
	return store, nil
}

// ProvidePriceProvider creates the REST daily-bar provider.
func ProvidePriceProvider(cfg *config.Config, logger *applogger.Logger) domrepo.PriceProvider {
	c := marketdata.New(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.Timeout,
		cfg.Provider.RatePerSec,
		cfg.Provider.RateBurst,
	)
	c.SetLogger(logger)
	return c
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetricsPublisher creates the Kafka metrics publisher, or nil
// when Kafka is disabled.
func ProvideMetricsPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaMetricsPublisher(producer, cfg.Kafka.Topic)
}

// ProvideTelemetry creates a Prometheus metrics recorder.
func ProvideTelemetry() domrepo.Metrics {
	return metrics.New()
}

// Quant engine providers.

func ProvideCleaner() domsvc.PriceCleaner        { return quant.NewCleaner() }
func ProvideReturns() domsvc.ReturnsEngine       { return quant.NewReturns() }
func ProvideRolling() domsvc.RollingStatsEngine  { return quant.NewRolling() }
func ProvideDrawdown() domsvc.DrawdownAnalyzer   { return quant.NewDrawdown() }
func ProvideAnnualMetrics() domsvc.MetricsEngine { return quant.NewAnnualMetrics() }

// ProvideAnalysisUseCase wires the analytics pipeline.
func ProvideAnalysisUseCase(
	store domrepo.PriceStore,
	cleaner domsvc.PriceCleaner,
	returns domsvc.ReturnsEngine,
	rolling domsvc.RollingStatsEngine,
	drawdown domsvc.DrawdownAnalyzer,
	annual domsvc.MetricsEngine,
	publisher domrepo.Publisher,
	telemetry domrepo.Metrics,
	logger *applogger.Logger,
) *usecase.AnalysisUseCase {
	uc := usecase.NewAnalysisUseCase(store, cleaner, returns, rolling, drawdown, annual)
	if publisher != nil {
		uc.SetPublisher(publisher)
	}
	uc.SetTelemetry(telemetry)
	uc.SetLogger(logger)
	return uc
}

// ProvideReportUseCase wires the report builder.
func ProvideReportUseCase(analysis *usecase.AnalysisUseCase) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(analysis)
}

// ProvidePricesUseCase wires the bar query use case.
func ProvidePricesUseCase(store domrepo.PriceStore) *usecase.PricesUseCase {
	return usecase.NewPricesUseCase(store)
}

// ProvideIngestUseCase wires the provider-to-store ingest.
func ProvideIngestUseCase(provider domrepo.PriceProvider, store domrepo.PriceStore, logger *applogger.Logger) *usecase.IngestUseCase {
	uc := usecase.NewIngestUseCase(provider, store)
	uc.SetLogger(logger)
	return uc
}

// ProvideReportCache selects the report cache backend from config.
func ProvideReportCache(cfg *config.Config) icache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHTTPHandler wires the analytics HTTP surface.
func ProvideHTTPHandler(
	cfg *config.Config,
	logger *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	report *usecase.ReportUseCase,
	prices *usecase.PricesUseCase,
	ingest *usecase.IngestUseCase,
	cache icache.BytesCache,
) xhttp.Handler {
	h := api.NewAnalyticsEchoHandler(logger, analysis, report, prices, ingest)
	if cache != nil {
		h.SetCache(cache, cfg.Cache.TTL)
	}
	h.SetAnalysisDefaults(api.AnalysisDefaults{
		Lookback:       cfg.Provider.Lookback,
		PeriodsPerYear: cfg.Analysis.TradingPeriodsPerYear,
		Window:         cfg.Analysis.RollingWindow,
		MinObs:         cfg.Analysis.MinValidObservations,
		RiskFree:       cfg.Analysis.RiskFreeRate,
		Fill:           models.FillStrategy(cfg.Analysis.FillStrategy),
	})
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	chClient *pkgch.Client,
	ingest *usecase.IngestUseCase,
	handler xhttp.Handler,
	publisher domrepo.Publisher,
) *server.App {
	app := server.New(cfg, logger, chClient, ingest, handler)
	if publisher != nil {
		app.SetPublisher(publisher)
	}
	return app
}
