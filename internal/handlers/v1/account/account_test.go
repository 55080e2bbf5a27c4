package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/handlers/v1/handlertest"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, session storage.Session, account service.NewAccount) (model.Account, error) {
	args := m.Called(ctx, session, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, session storage.Session, cursor *service.AccountCursor) ([]model.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, session, cursor)
	accounts, _ := args.Get(0).([]model.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func (m *mockAccountService) GetAccount(ctx context.Context, session storage.Session, id uuid.UUID) (model.Account, error) {
	args := m.Called(ctx, session, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, session storage.Session, id uuid.UUID) error {
	return m.Called(ctx, session, id).Error(0)
}

func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	api := handlertest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	NewListAccountsHandler(svc).Register(api)
	NewGetAccountHandler(svc).Register(api)
	NewDeleteAccountHandler(svc).Register(api)
	return api
}

func testAccount(name string) model.Account {
	return model.Account{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      name,
		Type:      model.AccountTypeBank,
		Balance:   decimal.RequireFromString("150000"),
		Currency:  "TWD",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// -- parseCreateAccountInput unit tests --

func TestParseCreateAccountInput_Valid(t *testing.T) {
	input := &CreateAccountInput{Body: CreateAccountBody{Name: "Card", Type: "Credit Card", Balance: "-12000", Currency: "USD"}}

	acc, err := parseCreateAccountInput(input)

	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeCredit, acc.Type)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("-12000")))
	assert.Equal(t, "USD", acc.Currency)
}

func TestParseCreateAccountInput_DefaultsBalance(t *testing.T) {
	acc, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{Name: "Wallet", Type: "Cash"}})

	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestParseCreateAccountInput_InvalidBalance(t *testing.T) {
	_, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{Name: "Wallet", Type: "Cash", Balance: "lots"}})

	assert.Error(t, err)
}

// -- create tests --

func TestHTTP_CreateAccount_Success(t *testing.T) {
	created := testAccount("Main Savings")
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, handlertest.Session, mock.MatchedBy(func(a service.NewAccount) bool {
		return a.Name == "Main Savings" && a.Type == model.AccountTypeBank && a.Balance.Equal(decimal.RequireFromString("150000"))
	})).Return(created, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{Name: "Main Savings", Type: "Bank", Balance: "150000"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "Bank", body.Type)
	assert.Equal(t, "TWD", body.Currency)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_UnknownType(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{Name: "Main", Type: "Loan"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_EmptyName(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{Name: "", Type: "Bank"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_ServiceRejects(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return(model.Account{}, fmt.Errorf("blank name: %w", apperr.ErrInvalidArgument))

	resp := newTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{Name: "  ", Type: "Bank"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_CreateAccount_NoSession(t *testing.T) {
	mockSvc := new(mockAccountService)
	api := handlertest.NewAnonymous(t)
	NewCreateAccountHandler(mockSvc).Register(api)

	resp := api.Post("/v1/account", CreateAccountBody{Name: "Main", Type: "Bank"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

// -- list tests --

func TestHTTP_ListAccounts_WithNextCursor(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("ListAccounts", mock.Anything, handlertest.Session, &service.AccountCursor{Position: 0, Limit: 2}).
		Return([]model.Account{testAccount("A"), testAccount("B")}, &service.AccountCursor{Position: 2, Limit: 2}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/accounts?limit=2")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Accounts, 2)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 2, body.NextCursor.Position)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListAccounts_Empty(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("ListAccounts", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/accounts")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Accounts)
	assert.Nil(t, body.NextCursor)
}

func TestHTTP_ListAccounts_ServiceError(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("ListAccounts", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, errors.New("database unavailable"))

	resp := newTestAPI(t, mockSvc).Get("/v1/accounts")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

// -- get / delete tests --

func TestHTTP_GetAccount(t *testing.T) {
	acc := testAccount("Main")
	mockSvc := new(mockAccountService)
	mockSvc.On("GetAccount", mock.Anything, handlertest.Session, acc.ID).Return(acc, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/account/" + acc.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "150000", body.Balance)
}

func TestHTTP_GetAccount_NotFound(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("GetAccount", mock.Anything, mock.Anything, mock.Anything).Return(model.Account{}, apperr.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Get("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_GetAccount_InvalidID(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Get("/v1/account/not-a-uuid")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "GetAccount")
}

func TestHTTP_DeleteAccount(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockAccountService)
	mockSvc.On("DeleteAccount", mock.Anything, handlertest.Session, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/account/" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}
