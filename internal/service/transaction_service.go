package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op *operator.OperatorDelegator) *TransactionService {
	return &TransactionService{storage: store, operator: op, now: time.Now}
}

// PostTransaction records a transaction and updates the balances it touches.
func (s *TransactionService) PostTransaction(ctx context.Context, session storage.Session, transaction model.NewTransaction) (model.Transaction, error) {
	action := &actions.PostTransaction{Input: transaction}
	if err := s.operator.Process(ctx, session, action); err != nil {
		return model.Transaction{}, err
	}
	return action.Result, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
// The first page pins MaxCreationTime so later pages ignore newer postings.
func (s *TransactionService) ListTransactions(ctx context.Context, session storage.Session, cursor *TransactionCursor) ([]model.Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	maxCreationTime := s.now()
	var accountID *uuid.UUID
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = cursor.MaxCreationTime
		}
		accountID = cursor.AccountID
	}

	filter := &storage.TransactionFilter{
		AccountID:       accountID,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: &maxCreationTime,
	}

	var rows []model.Transaction
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		rows, err = r.Transactions.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: maxCreationTime,
			AccountID:       accountID,
		}
	}

	return rows, nextCursor, nil
}
