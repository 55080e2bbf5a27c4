package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
	"github.com/carson-networks/finance-server/internal/storage"
)

// TradeResult is what a trade left behind. Holding is nil when the trade
// closed the position.
type TradeResult struct {
	Trade   model.StockTrade    `json:"trade"`
	Holding *model.StockHolding `json:"holding,omitempty"`
}

// ApplyTrade appends a trade to the log and folds it into the symbol's holding.
type ApplyTrade struct {
	Input model.NewStockTrade
	Clock

	Result TradeResult
}

func (a *ApplyTrade) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := portfolio.Validate(a.Input); err != nil {
		return err
	}
	symbol := model.NormalizeSymbol(a.Input.Symbol)

	if err := writer.Lock(ctx, storage.KindHolding, symbol); err != nil {
		return err
	}

	var current *model.StockHolding
	holding, err := writer.Holdings.Get(ctx, symbol)
	switch {
	case err == nil:
		current = &holding
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return err
	}

	now := a.now()
	trade := model.StockTrade{
		Symbol:   symbol,
		Type:     a.Input.Type,
		Quantity: a.Input.Quantity,
		Price:    a.Input.Price,
		Fee:      a.Input.Fee,
		Date:     a.Input.Date,
	}
	if trade.Date.IsZero() {
		trade.Date = now
	}

	// Rejected trades never reach the log.
	next, err := portfolio.Apply(current, trade, now)
	if err != nil {
		return err
	}

	trade, err = writer.Trades.Upsert(ctx, trade)
	if err != nil {
		return err
	}

	switch {
	case next != nil:
		saved, err := writer.Holdings.Upsert(ctx, *next)
		if err != nil {
			return err
		}
		next = &saved
	case current != nil:
		if err := writer.Holdings.Delete(ctx, symbol); err != nil {
			return err
		}
	}

	a.Result = TradeResult{Trade: trade, Holding: next}
	return nil
}

func (a *ApplyTrade) Events() []events.Event {
	return []events.Event{{Type: events.TradeApplied, OccurredAt: a.Result.Trade.Date, Payload: a.Result}}
}
