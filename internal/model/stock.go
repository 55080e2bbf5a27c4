package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
)

// TradeType is the side of a stock trade.
type TradeType int8

const (
	TradeTypeBuy TradeType = iota
	TradeTypeSell
)

func (t TradeType) String() string {
	switch t {
	case TradeTypeBuy:
		return "Buy"
	case TradeTypeSell:
		return "Sell"
	default:
		return "Unknown"
	}
}

// ParseTradeType parses "Buy" or "Sell".
func ParseTradeType(s string) (TradeType, error) {
	switch s {
	case "Buy":
		return TradeTypeBuy, nil
	case "Sell":
		return TradeTypeSell, nil
	default:
		return 0, fmt.Errorf("unknown trade type %q: %w", s, apperr.ErrInvalidArgument)
	}
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NewStockTrade is the input for applying a trade.
type NewStockTrade struct {
	Symbol   string
	Type     TradeType
	Quantity int64
	Price    decimal.Decimal
	Fee      decimal.Decimal
	Date     time.Time // defaults to now if zero
}

// StockTrade is an entry of the append-only trade log.
type StockTrade struct {
	ID       uuid.UUID       `json:"id"`
	Symbol   string          `json:"symbol"`
	Type     TradeType       `json:"type"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Date     time.Time       `json:"date"`
}

// StockHolding is the aggregated position in one symbol, derived from its trades.
type StockHolding struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}
