package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/model"
)

type CategoriesOutput struct {
	Body struct {
		Income  []string `json:"income" doc:"Suggested income categories"`
		Expense []string `json:"expense" doc:"Suggested expense categories"`
	}
}

// Handler handles GET /v1/categories. Categories are free text; these lists
// are suggestions for clients.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "Suggested categories",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *Handler) handle(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	out := &CategoriesOutput{}
	out.Body.Income = model.IncomeCategories
	out.Body.Expense = model.ExpenseCategories
	return out, nil
}
