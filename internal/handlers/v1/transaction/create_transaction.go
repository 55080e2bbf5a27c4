package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

// CreateTransactionBody is the request body for posting a transaction.
type CreateTransactionBody struct {
	AccountID       string `json:"accountID" format:"uuid" doc:"Account UUID"`
	ToAccountID     string `json:"toAccountID,omitempty" format:"uuid" doc:"Destination account UUID, required for transfers"`
	Amount          string `json:"amount" minLength:"1" doc:"Non-negative decimal amount"`
	Type            string `json:"type" enum:"Income,Expense,Transfer" doc:"Transaction type"`
	Category        string `json:"category,omitempty" doc:"Category name, defaults to Other"`
	TransactionDate string `json:"transactionDate,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
	Note            string `json:"note,omitempty" doc:"Free-form note"`
}

// CreateTransactionInput is the Huma input for posting a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for posting a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionPoster is the interface for posting transactions.
type transactionPoster interface {
	PostTransaction(ctx context.Context, session storage.Session, transaction model.NewTransaction) (model.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionPoster
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionPoster) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Post transaction",
		Description: "Records a transaction and applies it to the balances of the accounts it touches.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (model.NewTransaction, error) {
	accountID, err := uuid.FromString(input.Body.AccountID)
	if err != nil {
		return model.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	var toAccountID uuid.UUID
	if input.Body.ToAccountID != "" {
		toAccountID, err = uuid.FromString(input.Body.ToAccountID)
		if err != nil {
			return model.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid toAccountID", err)
		}
	}

	amount, err := handlerutil.ParseDecimal("amount", input.Body.Amount)
	if err != nil {
		return model.NewTransaction{}, err
	}

	txType, err := model.ParseTransactionType(input.Body.Type)
	if err != nil {
		return model.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}

	var date time.Time
	if input.Body.TransactionDate != "" {
		date, err = time.Parse(time.RFC3339, input.Body.TransactionDate)
		if err != nil {
			return model.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
	}

	return model.NewTransaction{
		AccountID:   accountID,
		ToAccountID: toAccountID,
		Amount:      amount,
		Type:        txType,
		Category:    input.Body.Category,
		Date:        date,
		Note:        input.Body.Note,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	newTx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("postTransactionMs")
	tx, err := h.TransactionService.PostTransaction(ctx, session, newTx)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to post transaction", err)
	}

	logData.AddData("transactionID", tx.ID.String())

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromModel(tx),
	}, nil
}
