package stock

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// ApplyTradeBody is the request body for recording a trade.
type ApplyTradeBody struct {
	Symbol    string `json:"symbol" minLength:"1" maxLength:"16" doc:"Ticker symbol"`
	Type      string `json:"type" enum:"Buy,Sell" doc:"Trade side"`
	Quantity  int64  `json:"quantity" minimum:"1" doc:"Shares traded"`
	Price     string `json:"price" minLength:"1" doc:"Price per share"`
	Fee       string `json:"fee,omitempty" doc:"Total fee, defaults to 0"`
	TradeDate string `json:"tradeDate,omitempty" format:"date-time" doc:"RFC3339 trade date, defaults to now"`
}

type ApplyTradeInput struct {
	Body ApplyTradeBody
}

// ApplyTradeResponse carries the logged trade and the holding it produced.
// Holding is absent when the trade closed the position.
type ApplyTradeResponse struct {
	Trade   Trade    `json:"trade"`
	Holding *Holding `json:"holding,omitempty"`
}

type ApplyTradeOutput struct {
	Status int
	Body   ApplyTradeResponse
}

type tradeApplier interface {
	ApplyTrade(ctx context.Context, session storage.Session, trade model.NewStockTrade) (service.TradeResult, error)
}

// ApplyTradeHandler handles POST /v1/trade.
type ApplyTradeHandler struct {
	PortfolioService tradeApplier
}

func NewApplyTradeHandler(svc tradeApplier) *ApplyTradeHandler {
	return &ApplyTradeHandler{PortfolioService: svc}
}

func (h *ApplyTradeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "apply-trade",
		Method:      http.MethodPost,
		Path:        "/v1/trade",
		Summary:     "Record a trade",
		Description: "Logs a buy or sell and updates the average-cost holding of its symbol. Selling more than is held closes the position.",
		Tags:        []string{"Stocks"},
	}, h.handle)
}

func parseApplyTradeInput(input *ApplyTradeInput) (model.NewStockTrade, error) {
	tradeType, err := model.ParseTradeType(input.Body.Type)
	if err != nil {
		return model.NewStockTrade{}, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}

	price, err := handlerutil.ParseDecimal("price", input.Body.Price)
	if err != nil {
		return model.NewStockTrade{}, err
	}
	fee, err := handlerutil.ParseDecimal("fee", input.Body.Fee)
	if err != nil {
		return model.NewStockTrade{}, err
	}

	var date time.Time
	if input.Body.TradeDate != "" {
		date, err = time.Parse(time.RFC3339, input.Body.TradeDate)
		if err != nil {
			return model.NewStockTrade{}, huma.NewError(http.StatusBadRequest, "invalid tradeDate", err)
		}
	}

	return model.NewStockTrade{
		Symbol:   input.Body.Symbol,
		Type:     tradeType,
		Quantity: input.Body.Quantity,
		Price:    price,
		Fee:      fee,
		Date:     date,
	}, nil
}

func (h *ApplyTradeHandler) handle(ctx context.Context, input *ApplyTradeInput) (*ApplyTradeOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	trade, err := parseApplyTradeInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("applyTradeMs")
	result, err := h.PortfolioService.ApplyTrade(ctx, session, trade)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to apply trade", err)
	}

	logData.AddData("tradeID", result.Trade.ID.String())
	logData.AddData("symbol", result.Trade.Symbol)

	resp := ApplyTradeResponse{Trade: fromTrade(result.Trade)}
	if result.Holding != nil {
		holding := fromHolding(*result.Holding)
		resp.Holding = &holding
	}

	return &ApplyTradeOutput{Status: http.StatusCreated, Body: resp}, nil
}
