package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
)

// Kind names an entity collection. Backends use it to scope per-key locks.
type Kind string

const (
	KindAccount     Kind = "accounts"
	KindTransaction Kind = "transactions"
	KindHolding     Kind = "stocks"
	KindTrade       Kind = "trades"
)

// Session identifies the user whose entities a unit of work may touch.
type Session struct {
	UserID string
}

// AccountFilter specifies paging for listing accounts.
type AccountFilter struct {
	Limit  int
	Offset int
}

// TransactionFilter specifies filters for listing transactions.
// A positive Limit returns up to Limit+1 rows so callers can detect a next page.
type TransactionFilter struct {
	AccountID       *uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// IAccountTable defines account storage operations.
type IAccountTable interface {
	List(ctx context.Context, filter *AccountFilter) ([]model.Account, error)
	Get(ctx context.Context, id uuid.UUID) (model.Account, error)
	Upsert(ctx context.Context, account model.Account) (model.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ITransactionTable defines transaction storage operations.
type ITransactionTable interface {
	List(ctx context.Context, filter *TransactionFilter) ([]model.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (model.Transaction, error)
	Upsert(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IHoldingTable defines stock holding storage operations, keyed by symbol.
type IHoldingTable interface {
	List(ctx context.Context) ([]model.StockHolding, error)
	Get(ctx context.Context, symbol string) (model.StockHolding, error)
	Upsert(ctx context.Context, holding model.StockHolding) (model.StockHolding, error)
	Delete(ctx context.Context, symbol string) error
}

// ITradeTable defines trade log storage operations.
type ITradeTable interface {
	List(ctx context.Context) ([]model.StockTrade, error)
	Get(ctx context.Context, id uuid.UUID) (model.StockTrade, error)
	Upsert(ctx context.Context, trade model.StockTrade) (model.StockTrade, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Unit is one backend transaction. Everything written through its tables
// becomes visible together on Commit, or not at all.
type Unit interface {
	Accounts() IAccountTable
	Transactions() ITransactionTable
	Holdings() IHoldingTable
	Trades() ITradeTable

	// Lock serializes access to one key for the rest of the unit.
	Lock(ctx context.Context, kind Kind, key string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Backend is a persistence adapter.
type Backend interface {
	Begin(ctx context.Context, session Session, readOnly bool) (Unit, error)
	Close() error
}
