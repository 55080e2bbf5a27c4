package account

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

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name     string `json:"name" minLength:"1" doc:"Account name"`
	Type     string `json:"type" enum:"Bank,Cash,Credit Card,Investment" doc:"Account type"`
	Balance  string `json:"balance,omitempty" doc:"Initial balance (e.g. '0' or '-1234.56'), defaults to 0"`
	Currency string `json:"currency,omitempty" maxLength:"3" doc:"ISO currency code, defaults to the server currency"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, session storage.Session, account service.NewAccount) (model.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates a new account with the given name, type, initial balance and currency.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.NewAccount, error) {
	balance, err := handlerutil.ParseDecimal("balance", input.Body.Balance)
	if err != nil {
		return service.NewAccount{}, err
	}

	accountType, err := model.ParseAccountType(input.Body.Type)
	if err != nil {
		return service.NewAccount{}, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}

	return service.NewAccount{
		Name:     input.Body.Name,
		Type:     accountType,
		Balance:  balance,
		Currency: input.Body.Currency,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	session, err := handlerutil.Session(ctx)
	if err != nil {
		return nil, err
	}

	newAccount, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createAccountMs")
	acc, err := h.AccountService.CreateAccount(ctx, session, newAccount)
	stopTimer()
	if err != nil {
		return nil, handlerutil.Error("failed to create account", err)
	}

	logData.AddData("accountID", acc.ID.String())

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   fromModel(acc),
	}, nil
}
