package stock

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

type HoldingsOutput struct {
	Body struct {
		Holdings []Holding `json:"holdings"`
	}
}

type HoldingOutput struct {
	Body Holding
}

type TradesOutput struct {
	Body struct {
		Trades []Trade `json:"trades"`
	}
}

type portfolioReader interface {
	ListTrades(ctx context.Context, session storage.Session) ([]model.StockTrade, error)
	ListHoldings(ctx context.Context, session storage.Session) ([]service.Holding, error)
	GetHolding(ctx context.Context, session storage.Session, symbol string) (service.Holding, error)
}

// PortfolioReadHandler serves the read-only portfolio endpoints.
type PortfolioReadHandler struct {
	PortfolioService portfolioReader
}

func NewPortfolioReadHandler(svc portfolioReader) *PortfolioReadHandler {
	return &PortfolioReadHandler{PortfolioService: svc}
}

func (h *PortfolioReadHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-trades",
		Method:      http.MethodGet,
		Path:        "/v1/trades",
		Summary:     "List trades",
		Description: "Returns the trade log ordered by trade date.",
		Tags:        []string{"Stocks"},
	}, h.listTrades)

	huma.Register(api, huma.Operation{
		OperationID: "list-holdings",
		Method:      http.MethodGet,
		Path:        "/v1/holdings",
		Summary:     "List holdings",
		Description: "Returns every open holding with market value, cost basis and unrealized gain.",
		Tags:        []string{"Stocks"},
	}, h.listHoldings)

	huma.Register(api, huma.Operation{
		OperationID: "get-holding",
		Method:      http.MethodGet,
		Path:        "/v1/holding/{symbol}",
		Summary:     "Get a holding",
		Tags:        []string{"Stocks"},
	}, h.getHolding)
}

func (h *PortfolioReadHandler) listTrades(ctx context.Context, _ *struct{}) (*TradesOutput, error) {
	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("listTradesMs")
	trades, err := h.PortfolioService.ListTrades(ctx, session)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to list trades", err)
	}

	out := &TradesOutput{}
	out.Body.Trades = make([]Trade, len(trades))
	for i, t := range trades {
		out.Body.Trades[i] = fromTrade(t)
	}
	return out, nil
}

func (h *PortfolioReadHandler) listHoldings(ctx context.Context, _ *struct{}) (*HoldingsOutput, error) {
	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("listHoldingsMs")
	holdings, err := h.PortfolioService.ListHoldings(ctx, session)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to list holdings", err)
	}

	out := &HoldingsOutput{}
	out.Body.Holdings = fromHoldings(holdings)
	return out, nil
}

func (h *PortfolioReadHandler) getHolding(ctx context.Context, input *SymbolPathInput) (*HoldingOutput, error) {
	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	holding, err := h.PortfolioService.GetHolding(ctx, session, input.Symbol)
	if err != nil {
		return nil, handlerutil.Error("failed to get holding", err)
	}
	return &HoldingOutput{Body: fromHolding(holding)}, nil
}
