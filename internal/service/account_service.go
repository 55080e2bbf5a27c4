package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	storage         *storage.Storage
	operator        *operator.OperatorDelegator
	defaultCurrency string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, op *operator.OperatorDelegator, defaultCurrency string) *AccountService {
	return &AccountService{storage: store, operator: op, defaultCurrency: defaultCurrency}
}

// CreateAccount creates a new account with its initial balance.
func (s *AccountService) CreateAccount(ctx context.Context, session storage.Session, account NewAccount) (model.Account, error) {
	currency := account.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	action := &actions.CreateAccount{
		Name:     account.Name,
		Type:     account.Type,
		Balance:  account.Balance,
		Currency: currency,
	}
	if err := s.operator.Process(ctx, session, action); err != nil {
		return model.Account{}, err
	}
	return action.Result, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, session storage.Session, id uuid.UUID) (model.Account, error) {
	var account model.Account
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		account, err = r.Accounts.Get(ctx, id)
		return err
	})
	return account, err
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, session storage.Session, cursor *AccountCursor) ([]model.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	filter := &storage.AccountFilter{
		Limit:  limit,
		Offset: offset,
	}

	var accounts []model.Account
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		accounts, err = r.Accounts.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(accounts) > limit {
		accounts = accounts[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	return accounts, nextCursor, nil
}

// DeleteAccount removes an account. Its transactions stay in place.
func (s *AccountService) DeleteAccount(ctx context.Context, session storage.Session, id uuid.UUID) error {
	return s.operator.Process(ctx, session, &actions.DeleteAccount{ID: id})
}
