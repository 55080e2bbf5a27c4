package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Valuation holds the metrics derived from a holding. Nothing here is stored.
type Valuation struct {
	MarketValue   decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedPnL decimal.Decimal
}

// Value computes the valuation of h at its current price.
func Value(h model.StockHolding) Valuation {
	qty := decimal.NewFromInt(h.Quantity)
	marketValue := qty.Mul(h.CurrentPrice)
	costBasis := qty.Mul(h.AverageCost)
	return Valuation{
		MarketValue:   marketValue,
		CostBasis:     costBasis,
		UnrealizedPnL: marketValue.Sub(costBasis),
	}
}

// UnrealizedPnLPercent returns the unrealized gain as a percentage of the cost
// basis. ok is false when the cost basis is zero and the ratio is undefined.
func (v Valuation) UnrealizedPnLPercent() (pct decimal.Decimal, ok bool) {
	if v.CostBasis.IsZero() {
		return decimal.Decimal{}, false
	}
	return v.UnrealizedPnL.Div(v.CostBasis).Mul(hundred), true
}
