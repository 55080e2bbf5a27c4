package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/advisor"
	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

// CategoryTotal is one entry of the expense breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// Snapshot is the API response model for the dashboard overview. Amounts are
// decimal strings; NetWorthDisplay is the same net worth formatted for people.
type Snapshot struct {
	TotalAssets        string          `json:"totalAssets" doc:"Positive balances plus stock market value"`
	TotalLiabilities   string          `json:"totalLiabilities" doc:"Sum of negative balances, as a positive number"`
	NetWorth           string          `json:"netWorth" doc:"Cash balance plus stock market value"`
	NetWorthDisplay    string          `json:"netWorthDisplay" doc:"Net worth formatted in the server currency"`
	CashBalance        string          `json:"cashBalance"`
	StockValue         string          `json:"stockValue"`
	TotalIncome        string          `json:"totalIncome"`
	TotalExpense       string          `json:"totalExpense"`
	MonthlyIncome      string          `json:"monthlyIncome" doc:"Income dated in the current calendar month"`
	MonthlyExpense     string          `json:"monthlyExpense" doc:"Expenses dated in the current calendar month"`
	ExpensesByCategory []CategoryTotal `json:"expensesByCategory" doc:"Expense totals by category, largest first"`
}

type SnapshotOutput struct {
	Body Snapshot
}

type snapshotter interface {
	Snapshot(ctx context.Context, session storage.Session) (model.FinancialSnapshot, error)
}

// Handler handles GET /v1/summary.
type Handler struct {
	SummaryService snapshotter
	Currency       string
}

func NewHandler(svc snapshotter, currency string) *Handler {
	return &Handler{SummaryService: svc, Currency: currency}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Financial snapshot",
		Description: "Returns assets, liabilities, net worth, income and expense totals and the expense breakdown.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("snapshotMs")
	snap, err := h.SummaryService.Snapshot(ctx, session)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to build summary", err)
	}

	body := Snapshot{
		TotalAssets:        snap.TotalAssets.String(),
		TotalLiabilities:   snap.TotalLiabilities.String(),
		NetWorth:           snap.NetWorth.String(),
		NetWorthDisplay:    advisor.FormatMoney(snap.NetWorth, h.Currency),
		CashBalance:        snap.CashBalance.String(),
		StockValue:         snap.StockValue.String(),
		TotalIncome:        snap.TotalIncome.String(),
		TotalExpense:       snap.TotalExpense.String(),
		MonthlyIncome:      snap.MonthlyIncome.String(),
		MonthlyExpense:     snap.MonthlyExpense.String(),
		ExpensesByCategory: make([]CategoryTotal, len(snap.ExpensesByCategory)),
	}
	for i, c := range snap.ExpensesByCategory {
		body.ExpensesByCategory[i] = CategoryTotal{Category: c.Category, Amount: c.Amount.String()}
	}

	return &SnapshotOutput{Body: body}, nil
}
