package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/pricing"
	"github.com/carson-networks/finance-server/internal/storage"
)

var errNoPriceSource = errors.New("service: no price source configured")

// PortfolioService handles trades and holdings.
type PortfolioService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	prices   pricing.Source
}

func NewPortfolioService(store *storage.Storage, op *operator.OperatorDelegator, prices pricing.Source) *PortfolioService {
	return &PortfolioService{storage: store, operator: op, prices: prices}
}

// ApplyTrade logs a trade and updates the holding of its symbol.
func (s *PortfolioService) ApplyTrade(ctx context.Context, session storage.Session, trade model.NewStockTrade) (TradeResult, error) {
	action := &actions.ApplyTrade{Input: trade}
	if err := s.operator.Process(ctx, session, action); err != nil {
		return TradeResult{}, err
	}

	result := TradeResult{Trade: action.Result.Trade}
	if action.Result.Holding != nil {
		h := newHolding(*action.Result.Holding)
		result.Holding = &h
	}
	return result, nil
}

// ListTrades returns the trade log in date order.
func (s *PortfolioService) ListTrades(ctx context.Context, session storage.Session) ([]model.StockTrade, error) {
	var trades []model.StockTrade
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		trades, err = r.Trades.List(ctx)
		return err
	})
	return trades, err
}

// ListHoldings returns every open holding with its metrics.
func (s *PortfolioService) ListHoldings(ctx context.Context, session storage.Session) ([]Holding, error) {
	var rows []model.StockHolding
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		rows, err = r.Holdings.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	holdings := make([]Holding, len(rows))
	for i, row := range rows {
		holdings[i] = newHolding(row)
	}
	return holdings, nil
}

// GetHolding returns one holding with its metrics.
func (s *PortfolioService) GetHolding(ctx context.Context, session storage.Session, symbol string) (Holding, error) {
	var row model.StockHolding
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		row, err = r.Holdings.Get(ctx, model.NormalizeSymbol(symbol))
		return err
	})
	if err != nil {
		return Holding{}, err
	}
	return newHolding(row), nil
}

// RepriceHolding sets the current price of a holding.
func (s *PortfolioService) RepriceHolding(ctx context.Context, session storage.Session, symbol string, price decimal.Decimal) (Holding, error) {
	action := &actions.RepriceHolding{Symbol: symbol, Price: price}
	if err := s.operator.Process(ctx, session, action); err != nil {
		return Holding{}, err
	}
	return newHolding(action.Result), nil
}

// RefreshPrices reprices every holding from the configured price source.
func (s *PortfolioService) RefreshPrices(ctx context.Context, session storage.Session) ([]Holding, error) {
	if s.prices == nil {
		return nil, errNoPriceSource
	}

	action := &actions.RefreshPrices{Source: s.prices}
	if err := s.operator.Process(ctx, session, action); err != nil {
		return nil, err
	}

	holdings := make([]Holding, len(action.Result))
	for i, row := range action.Result {
		holdings[i] = newHolding(row)
	}
	return holdings, nil
}
