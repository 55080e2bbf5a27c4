package stock

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

type AnalysisOutput struct {
	Body struct {
		Symbol   string `json:"symbol"`
		Analysis string `json:"analysis" doc:"Short description of the company, or a placeholder when the advisor is unavailable"`
	}
}

type stockAnalyzer interface {
	AnalyzeStock(ctx context.Context, session storage.Session, symbol string) (string, error)
}

// AnalysisHandler handles GET /v1/holding/{symbol}/analysis.
type AnalysisHandler struct {
	AdviceService stockAnalyzer
}

func NewAnalysisHandler(svc stockAnalyzer) *AnalysisHandler {
	return &AnalysisHandler{AdviceService: svc}
}

func (h *AnalysisHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "analyze-stock",
		Method:      http.MethodGet,
		Path:        "/v1/holding/{symbol}/analysis",
		Summary:     "Describe a stock",
		Tags:        []string{"Stocks"},
	}, h.handle)
}

func (h *AnalysisHandler) handle(ctx context.Context, input *SymbolPathInput) (*AnalysisOutput, error) {
	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("analyzeStockMs")
	text, err := h.AdviceService.AnalyzeStock(ctx, session, input.Symbol)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to analyze stock", err)
	}

	out := &AnalysisOutput{}
	out.Body.Symbol = model.NormalizeSymbol(input.Symbol)
	out.Body.Analysis = text
	return out, nil
}
