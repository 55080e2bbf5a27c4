// Package portfolio implements average-cost position accounting. Every
// function here is a pure state transition, persistence is the caller's job.
package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
)

// Validate checks a trade's shape. It does not look at the current holding.
func Validate(trade model.NewStockTrade) error {
	if model.NormalizeSymbol(trade.Symbol) == "" {
		return fmt.Errorf("symbol is required: %w", apperr.ErrInvalidArgument)
	}
	if trade.Type != model.TradeTypeBuy && trade.Type != model.TradeTypeSell {
		return fmt.Errorf("unsupported trade type %d: %w", trade.Type, apperr.ErrInvalidArgument)
	}
	if trade.Quantity <= 0 {
		return fmt.Errorf("quantity %d must be positive: %w", trade.Quantity, apperr.ErrInvalidArgument)
	}
	if !trade.Price.IsPositive() {
		return fmt.Errorf("price %s must be positive: %w", trade.Price, apperr.ErrInvalidArgument)
	}
	if trade.Fee.IsNegative() {
		return fmt.Errorf("fee %s must not be negative: %w", trade.Fee, apperr.ErrInvalidArgument)
	}
	return nil
}

// Apply returns the holding that results from applying trade to current.
// current is nil when no position is open. A nil result with a nil error
// means the trade closed the position and the holding must be deleted.
//
// Buys blend price and fee into a moving weighted-average cost. Sells only
// reduce quantity; an oversell closes the position rather than going short.
// Selling with no open position fails with apperr.ErrInvalidState.
func Apply(current *model.StockHolding, trade model.StockTrade, now time.Time) (*model.StockHolding, error) {
	switch trade.Type {
	case model.TradeTypeBuy:
		return buy(current, trade, now), nil
	case model.TradeTypeSell:
		if current == nil {
			return nil, fmt.Errorf("no open position in %s to sell: %w", trade.Symbol, apperr.ErrInvalidState)
		}
		return sell(current, trade), nil
	default:
		return nil, fmt.Errorf("unsupported trade type %d: %w", trade.Type, apperr.ErrInvalidArgument)
	}
}

func buy(current *model.StockHolding, trade model.StockTrade, now time.Time) *model.StockHolding {
	qty := decimal.NewFromInt(trade.Quantity)
	tradeCost := trade.Price.Mul(qty).Add(trade.Fee)

	if current == nil {
		return &model.StockHolding{
			Symbol:       trade.Symbol,
			Name:         trade.Symbol,
			Quantity:     trade.Quantity,
			AverageCost:  tradeCost.Div(qty),
			CurrentPrice: trade.Price,
			LastUpdated:  now,
		}
	}

	totalCost := decimal.NewFromInt(current.Quantity).Mul(current.AverageCost).Add(tradeCost)
	totalQty := current.Quantity + trade.Quantity

	next := *current
	next.Quantity = totalQty
	next.AverageCost = decimal.Zero
	if totalQty > 0 {
		next.AverageCost = totalCost.Div(decimal.NewFromInt(totalQty))
	}
	next.CurrentPrice = trade.Price
	next.LastUpdated = now
	return &next
}

func sell(current *model.StockHolding, trade model.StockTrade) *model.StockHolding {
	remaining := current.Quantity - trade.Quantity
	if remaining <= 0 {
		return nil
	}
	next := *current
	next.Quantity = remaining
	return &next
}

// Reprice sets the current price of a holding.
func Reprice(current model.StockHolding, price decimal.Decimal, now time.Time) (model.StockHolding, error) {
	if price.IsNegative() {
		return current, fmt.Errorf("price %s must not be negative: %w", price, apperr.ErrInvalidArgument)
	}
	current.CurrentPrice = price
	current.LastUpdated = now
	return current, nil
}
