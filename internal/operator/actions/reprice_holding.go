package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
	"github.com/carson-networks/finance-server/internal/storage"
)

type RepriceHolding struct {
	Symbol string
	Price  decimal.Decimal
	Clock

	Result model.StockHolding
}

func (r *RepriceHolding) Perform(ctx context.Context, writer *storage.Writer) error {
	symbol := model.NormalizeSymbol(r.Symbol)
	if err := writer.Lock(ctx, storage.KindHolding, symbol); err != nil {
		return err
	}

	holding, err := writer.Holdings.Get(ctx, symbol)
	if err != nil {
		return err
	}

	holding, err = portfolio.Reprice(holding, r.Price, r.now())
	if err != nil {
		return err
	}

	saved, err := writer.Holdings.Upsert(ctx, holding)
	if err != nil {
		return err
	}

	r.Result = saved
	return nil
}

func (r *RepriceHolding) Events() []events.Event {
	return []events.Event{{Type: events.HoldingRepriced, OccurredAt: r.Result.LastUpdated, Payload: r.Result}}
}
