package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
)

// Holding is a stored holding together with its derived metrics.
// UnrealizedPnLPercent is nil when the cost basis is zero.
type Holding struct {
	model.StockHolding
	MarketValue          decimal.Decimal
	CostBasis            decimal.Decimal
	UnrealizedPnL        decimal.Decimal
	UnrealizedPnLPercent *decimal.Decimal
}

func newHolding(h model.StockHolding) Holding {
	v := portfolio.Value(h)
	out := Holding{
		StockHolding:  h,
		MarketValue:   v.MarketValue,
		CostBasis:     v.CostBasis,
		UnrealizedPnL: v.UnrealizedPnL,
	}
	if pct, ok := v.UnrealizedPnLPercent(); ok {
		out.UnrealizedPnLPercent = &pct
	}
	return out
}

// TradeResult is the outcome of applying a trade. Holding is nil when the
// trade closed the position.
type TradeResult struct {
	Trade   model.StockTrade
	Holding *Holding
}
