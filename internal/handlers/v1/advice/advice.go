package advice

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/storage"
)

type AdviceOutput struct {
	Body struct {
		Advice string `json:"advice" doc:"Commentary on the user's finances, or a placeholder when the advisor is unavailable"`
	}
}

type adviser interface {
	Advise(ctx context.Context, session storage.Session) (string, error)
}

// Handler handles POST /v1/advice.
type Handler struct {
	AdviceService adviser
}

func NewHandler(svc adviser) *Handler {
	return &Handler{AdviceService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-advice",
		Method:      http.MethodPost,
		Path:        "/v1/advice",
		Summary:     "Financial advice",
		Description: "Sends the user's accounts, recent transactions and holdings to the AI advisor.",
		Tags:        []string{"Advice"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*AdviceOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("adviseMs")
	text, err := h.AdviceService.Advise(ctx, session)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to gather advice input", err)
	}

	logData.AddData("adviceLength", len(text))

	out := &AdviceOutput{}
	out.Body.Advice = text
	return out, nil
}
