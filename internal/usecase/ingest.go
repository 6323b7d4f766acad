package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
)

// IngestResult summarizes one ingest run. Per-symbol failures are kept
// alongside the symbols that loaded fine.
type IngestResult struct {
	Stored map[string]int    `json:"stored"`
	Errors map[string]string `json:"errors,omitempty"`
}

// IngestUseCase pulls daily bars from the provider and persists them.
type IngestUseCase struct {
	provider domrepo.PriceProvider
	store    domrepo.PriceStore
	logger   *applogger.Logger
}

func NewIngestUseCase(provider domrepo.PriceProvider, store domrepo.PriceStore) *IngestUseCase {
	return &IngestUseCase{provider: provider, store: store}
}

// SetLogger wires an optional structured logger.
func (uc *IngestUseCase) SetLogger(l *applogger.Logger) { uc.logger = l }

// Ingest fetches and stores bars for each symbol sequentially; the
// provider's rate limiter governs pacing, so no fan-out here.
func (uc *IngestUseCase) Ingest(ctx context.Context, symbols []string, from, to time.Time) (*IngestResult, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() || from.After(to) {
		from = to.AddDate(-2, 0, 0)
	}

	res := &IngestResult{
		Stored: make(map[string]int, len(symbols)),
		Errors: map[string]string{},
	}

	for _, symbol := range symbols {
		bars, err := uc.provider.FetchDailyBars(ctx, symbol, from, to)
		if err != nil {
			res.Errors[symbol] = err.Error()
			if uc.logger != nil {
				uc.logger.Warn("ingest fetch failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		if err := uc.store.StoreBatch(ctx, bars); err != nil {
			res.Errors[symbol] = err.Error()
			if uc.logger != nil {
				uc.logger.Error("ingest store failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		res.Stored[symbol] = len(bars)
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	if uc.logger != nil {
		uc.logger.Info("ingest complete",
			applogger.Strings("symbols", symbols),
			applogger.Int("failed", len(res.Errors)),
		)
	}
	return res, nil
}
