package stock

import (
	"time"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/service"
)

// Holding is the API response model for a holding and its derived metrics.
type Holding struct {
	Symbol               string  `json:"symbol" doc:"Upper-case ticker symbol"`
	Name                 string  `json:"name" doc:"Display name"`
	Quantity             int64   `json:"quantity" doc:"Shares held"`
	AverageCost          string  `json:"averageCost" doc:"Weighted average cost per share, fees included"`
	CurrentPrice         string  `json:"currentPrice" doc:"Last known price"`
	MarketValue          string  `json:"marketValue" doc:"quantity x currentPrice"`
	CostBasis            string  `json:"costBasis" doc:"quantity x averageCost"`
	UnrealizedPnL        string  `json:"unrealizedPnL" doc:"marketValue - costBasis"`
	UnrealizedPnLPercent *string `json:"unrealizedPnLPercent,omitempty" doc:"Unrealized gain in percent, absent when the cost basis is zero"`
	LastUpdated          string  `json:"lastUpdated" doc:"RFC3339 time of the last trade or price update"`
}

// Trade is the API response model for an entry of the trade log.
type Trade struct {
	ID       string `json:"id" doc:"Trade UUID"`
	Symbol   string `json:"symbol" doc:"Upper-case ticker symbol"`
	Type     string `json:"type" doc:"Buy or Sell"`
	Quantity int64  `json:"quantity" doc:"Shares traded"`
	Price    string `json:"price" doc:"Price per share"`
	Fee      string `json:"fee" doc:"Total fee"`
	Date     string `json:"date" doc:"RFC3339 trade date"`
}

func fromHolding(h service.Holding) Holding {
	out := Holding{
		Symbol:        h.Symbol,
		Name:          h.Name,
		Quantity:      h.Quantity,
		AverageCost:   h.AverageCost.String(),
		CurrentPrice:  h.CurrentPrice.String(),
		MarketValue:   h.MarketValue.String(),
		CostBasis:     h.CostBasis.String(),
		UnrealizedPnL: h.UnrealizedPnL.String(),
		LastUpdated:   h.LastUpdated.Format(time.RFC3339),
	}
	if h.UnrealizedPnLPercent != nil {
		pct := h.UnrealizedPnLPercent.StringFixed(2)
		out.UnrealizedPnLPercent = &pct
	}
	return out
}

func fromHoldings(holdings []service.Holding) []Holding {
	out := make([]Holding, len(holdings))
	for i, h := range holdings {
		out[i] = fromHolding(h)
	}
	return out
}

func fromTrade(t model.StockTrade) Trade {
	return Trade{
		ID:       t.ID.String(),
		Symbol:   t.Symbol,
		Type:     t.Type.String(),
		Quantity: t.Quantity,
		Price:    t.Price.String(),
		Fee:      t.Fee.String(),
		Date:     t.Date.Format(time.RFC3339),
	}
}

// SymbolPathInput addresses a single holding.
type SymbolPathInput struct {
	Symbol string `path:"symbol" minLength:"1" maxLength:"16" doc:"Ticker symbol, case-insensitive"`
}
