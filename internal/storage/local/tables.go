package local

import (
	"context"
	"fmt"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("local: generate id: %w", err)
	}
	return id, nil
}

// page applies offset and the limit+1 convention shared with the postgres backend.
func page[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && len(rows) > limit+1 {
		rows = rows[:limit+1]
	}
	return rows
}

type accountTable struct{ u *unit }

func (t *accountTable) List(_ context.Context, filter *storage.AccountFilter) ([]model.Account, error) {
	if err := t.u.readable(); err != nil {
		return nil, err
	}
	rows := make([]model.Account, 0, len(t.u.data.Accounts))
	for _, a := range t.u.data.Accounts {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	if filter != nil {
		rows = page(rows, filter.Limit, filter.Offset)
	}
	return rows, nil
}

func (t *accountTable) Get(_ context.Context, id uuid.UUID) (model.Account, error) {
	if err := t.u.readable(); err != nil {
		return model.Account{}, err
	}
	a, ok := t.u.data.Accounts[id]
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: %w", id, apperr.ErrNotFound)
	}
	return a, nil
}

func (t *accountTable) Upsert(_ context.Context, account model.Account) (model.Account, error) {
	if err := t.u.writable(); err != nil {
		return model.Account{}, err
	}
	if account.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.Account{}, err
		}
		account.ID = id
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = t.u.store.now()
	}
	t.u.data.Accounts[account.ID] = account
	return account, nil
}

func (t *accountTable) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if err := t.u.writable(); err != nil {
		return err
	}
	a, ok := t.u.data.Accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, apperr.ErrNotFound)
	}
	a.Balance = balance
	t.u.data.Accounts[id] = a
	return nil
}

func (t *accountTable) Delete(_ context.Context, id uuid.UUID) error {
	if err := t.u.writable(); err != nil {
		return err
	}
	if _, ok := t.u.data.Accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, apperr.ErrNotFound)
	}
	delete(t.u.data.Accounts, id)
	return nil
}

type transactionTable struct{ u *unit }

func (t *transactionTable) List(_ context.Context, filter *storage.TransactionFilter) ([]model.Transaction, error) {
	if err := t.u.readable(); err != nil {
		return nil, err
	}
	rows := make([]model.Transaction, 0, len(t.u.data.Transactions))
	for _, tx := range t.u.data.Transactions {
		if filter != nil {
			if filter.AccountID != nil && tx.AccountID != *filter.AccountID && tx.ToAccountID != *filter.AccountID {
				continue
			}
			if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
				continue
			}
		}
		rows = append(rows, tx)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID.String() > rows[j].ID.String()
	})
	if filter != nil {
		rows = page(rows, filter.Limit, filter.Offset)
	}
	return rows, nil
}

func (t *transactionTable) Get(_ context.Context, id uuid.UUID) (model.Transaction, error) {
	if err := t.u.readable(); err != nil {
		return model.Transaction{}, err
	}
	tx, ok := t.u.data.Transactions[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, apperr.ErrNotFound)
	}
	return tx, nil
}

func (t *transactionTable) Upsert(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	if err := t.u.writable(); err != nil {
		return model.Transaction{}, err
	}
	if tx.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.Transaction{}, err
		}
		tx.ID = id
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = t.u.store.now()
	}
	t.u.data.Transactions[tx.ID] = tx
	return tx, nil
}

func (t *transactionTable) Delete(_ context.Context, id uuid.UUID) error {
	if err := t.u.writable(); err != nil {
		return err
	}
	if _, ok := t.u.data.Transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, apperr.ErrNotFound)
	}
	delete(t.u.data.Transactions, id)
	return nil
}

type holdingTable struct{ u *unit }

func (t *holdingTable) List(_ context.Context) ([]model.StockHolding, error) {
	if err := t.u.readable(); err != nil {
		return nil, err
	}
	rows := make([]model.StockHolding, 0, len(t.u.data.Holdings))
	for _, h := range t.u.data.Holdings {
		rows = append(rows, h)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows, nil
}

func (t *holdingTable) Get(_ context.Context, symbol string) (model.StockHolding, error) {
	if err := t.u.readable(); err != nil {
		return model.StockHolding{}, err
	}
	h, ok := t.u.data.Holdings[symbol]
	if !ok {
		return model.StockHolding{}, fmt.Errorf("holding %s: %w", symbol, apperr.ErrNotFound)
	}
	return h, nil
}

func (t *holdingTable) Upsert(_ context.Context, holding model.StockHolding) (model.StockHolding, error) {
	if err := t.u.writable(); err != nil {
		return model.StockHolding{}, err
	}
	if holding.Symbol == "" {
		return model.StockHolding{}, fmt.Errorf("holding without symbol: %w", apperr.ErrInvalidArgument)
	}
	t.u.data.Holdings[holding.Symbol] = holding
	return holding, nil
}

func (t *holdingTable) Delete(_ context.Context, symbol string) error {
	if err := t.u.writable(); err != nil {
		return err
	}
	if _, ok := t.u.data.Holdings[symbol]; !ok {
		return fmt.Errorf("holding %s: %w", symbol, apperr.ErrNotFound)
	}
	delete(t.u.data.Holdings, symbol)
	return nil
}

type tradeTable struct{ u *unit }

func (t *tradeTable) List(_ context.Context) ([]model.StockTrade, error) {
	if err := t.u.readable(); err != nil {
		return nil, err
	}
	rows := make([]model.StockTrade, 0, len(t.u.data.Trades))
	for _, tr := range t.u.data.Trades {
		rows = append(rows, tr)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows, nil
}

func (t *tradeTable) Get(_ context.Context, id uuid.UUID) (model.StockTrade, error) {
	if err := t.u.readable(); err != nil {
		return model.StockTrade{}, err
	}
	tr, ok := t.u.data.Trades[id]
	if !ok {
		return model.StockTrade{}, fmt.Errorf("trade %s: %w", id, apperr.ErrNotFound)
	}
	return tr, nil
}

func (t *tradeTable) Upsert(_ context.Context, trade model.StockTrade) (model.StockTrade, error) {
	if err := t.u.writable(); err != nil {
		return model.StockTrade{}, err
	}
	if trade.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.StockTrade{}, err
		}
		trade.ID = id
	}
	t.u.data.Trades[trade.ID] = trade
	return trade, nil
}

func (t *tradeTable) Delete(_ context.Context, id uuid.UUID) error {
	if err := t.u.writable(); err != nil {
		return err
	}
	if _, ok := t.u.data.Trades[id]; !ok {
		return fmt.Errorf("trade %s: %w", id, apperr.ErrNotFound)
	}
	delete(t.u.data.Trades, id)
	return nil
}
