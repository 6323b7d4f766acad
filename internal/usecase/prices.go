package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// PricesUseCase serves stored daily bars.
type PricesUseCase struct {
	store domrepo.PriceStore
}

func NewPricesUseCase(store domrepo.PriceStore) *PricesUseCase {
	return &PricesUseCase{store: store}
}

// GetBars returns bars for one symbol in [from, to], capped at limit.
func (uc *PricesUseCase) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.PriceBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if limit <= 0 || limit > 50000 {
		limit = 10000
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() || from.After(to) {
		from = to.AddDate(-2, 0, 0)
	}
	return uc.store.GetBars(ctx, symbol, from, to, limit)
}
