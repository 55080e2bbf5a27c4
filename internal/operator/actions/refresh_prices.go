package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
	"github.com/carson-networks/finance-server/internal/pricing"
	"github.com/carson-networks/finance-server/internal/storage"
)

// RefreshPrices reprices every holding from Source in one unit of work.
type RefreshPrices struct {
	Source pricing.Source
	Clock

	Result []model.StockHolding
}

func (r *RefreshPrices) Perform(ctx context.Context, writer *storage.Writer) error {
	holdings, err := writer.Holdings.List(ctx)
	if err != nil {
		return err
	}

	now := r.now()
	updated := make([]model.StockHolding, 0, len(holdings))
	for _, listed := range holdings {
		if err := writer.Lock(ctx, storage.KindHolding, listed.Symbol); err != nil {
			return err
		}
		// Re-read under the lock.
		holding, err := writer.Holdings.Get(ctx, listed.Symbol)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		price, err := r.Source.Quote(ctx, holding)
		if err != nil {
			return err
		}
		holding, err = portfolio.Reprice(holding, price, now)
		if err != nil {
			return err
		}
		saved, err := writer.Holdings.Upsert(ctx, holding)
		if err != nil {
			return err
		}
		updated = append(updated, saved)
	}

	r.Result = updated
	return nil
}

func (r *RefreshPrices) Events() []events.Event {
	evs := make([]events.Event, len(r.Result))
	for i, h := range r.Result {
		evs[i] = events.Event{Type: events.HoldingRepriced, OccurredAt: h.LastUpdated, Payload: h}
	}
	return evs
}
