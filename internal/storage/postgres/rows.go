package postgres

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
)

type accountRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	Type      int16           `db:"type"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r accountRow) toModel() model.Account {
	return model.Account{
		ID:        r.ID,
		Name:      r.Name,
		Type:      model.AccountType(r.Type),
		Balance:   r.Balance,
		Currency:  r.Currency,
		CreatedAt: r.CreatedAt,
	}
}

type transactionRow struct {
	ID          uuid.UUID       `db:"id"`
	AccountID   uuid.UUID       `db:"account_id"`
	ToAccountID uuid.NullUUID   `db:"to_account_id"`
	Amount      decimal.Decimal `db:"amount"`
	Type        int16           `db:"type"`
	Category    string          `db:"category"`
	Date        time.Time       `db:"date"`
	Note        string          `db:"note"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r transactionRow) toModel() model.Transaction {
	return model.Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID.UUID,
		Amount:      r.Amount,
		Type:        model.TransactionType(r.Type),
		Category:    r.Category,
		Date:        r.Date,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt,
	}
}

type holdingRow struct {
	Symbol       string          `db:"symbol"`
	Name         string          `db:"name"`
	Quantity     int64           `db:"quantity"`
	AverageCost  decimal.Decimal `db:"average_cost"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	LastUpdated  time.Time       `db:"last_updated"`
}

func (r holdingRow) toModel() model.StockHolding {
	return model.StockHolding{
		Symbol:       r.Symbol,
		Name:         r.Name,
		Quantity:     r.Quantity,
		AverageCost:  r.AverageCost,
		CurrentPrice: r.CurrentPrice,
		LastUpdated:  r.LastUpdated,
	}
}

type tradeRow struct {
	ID       uuid.UUID       `db:"id"`
	Symbol   string          `db:"symbol"`
	Type     int16           `db:"type"`
	Quantity int64           `db:"quantity"`
	Price    decimal.Decimal `db:"price"`
	Fee      decimal.Decimal `db:"fee"`
	Date     time.Time       `db:"date"`
}

func (r tradeRow) toModel() model.StockTrade {
	return model.StockTrade{
		ID:       r.ID,
		Symbol:   r.Symbol,
		Type:     model.TradeType(r.Type),
		Quantity: r.Quantity,
		Price:    r.Price,
		Fee:      r.Fee,
		Date:     r.Date,
	}
}

var (
	accountColumns     = []any{"id", "name", "type", "balance", "currency", "created_at"}
	transactionColumns = []any{"id", "account_id", "to_account_id", "amount", "type", "category", "date", "note", "created_at"}
	holdingColumns     = []any{"symbol", "name", "quantity", "average_cost", "current_price", "last_updated"}
	tradeColumns       = []any{"id", "symbol", "type", "quantity", "price", "fee", "date"}
)
