package stock

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

type RepriceHoldingInput struct {
	Symbol string `path:"symbol" minLength:"1" maxLength:"16" doc:"Ticker symbol, case-insensitive"`
	Body   struct {
		Price string `json:"price" minLength:"1" doc:"New price per share"`
	}
}

type priceUpdater interface {
	RepriceHolding(ctx context.Context, session storage.Session, symbol string, price decimal.Decimal) (service.Holding, error)
	RefreshPrices(ctx context.Context, session storage.Session) ([]service.Holding, error)
}

// PriceHandler serves manual repricing and the bulk refresh.
type PriceHandler struct {
	PortfolioService priceUpdater
}

func NewPriceHandler(svc priceUpdater) *PriceHandler {
	return &PriceHandler{PortfolioService: svc}
}

func (h *PriceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reprice-holding",
		Method:      http.MethodPut,
		Path:        "/v1/holding/{symbol}/price",
		Summary:     "Set the price of a holding",
		Tags:        []string{"Stocks"},
	}, h.reprice)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-prices",
		Method:      http.MethodPost,
		Path:        "/v1/holdings/refresh",
		Summary:     "Refresh all prices",
		Description: "Reprices every holding from the configured price source.",
		Tags:        []string{"Stocks"},
	}, h.refresh)
}

func (h *PriceHandler) reprice(ctx context.Context, input *RepriceHoldingInput) (*HoldingOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	price, err := handlerutil.ParseDecimal("price", input.Body.Price)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("repriceHoldingMs")
	holding, err := h.PortfolioService.RepriceHolding(ctx, session, input.Symbol, price)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to reprice holding", err)
	}

	logData.AddData("symbol", holding.Symbol)
	return &HoldingOutput{Body: fromHolding(holding)}, nil
}

func (h *PriceHandler) refresh(ctx context.Context, _ *struct{}) (*HoldingsOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("refreshPricesMs")
	holdings, err := h.PortfolioService.RefreshPrices(ctx, session)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to refresh prices", err)
	}

	logData.AddData("holdingCount", len(holdings))

	out := &HoldingsOutput{}
	out.Body.Holdings = fromHoldings(holdings)
	return out, nil
}
