package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
)

// TransactionType determines the sign of a transaction's balance effect.
type TransactionType int8

const (
	TransactionTypeIncome TransactionType = iota
	TransactionTypeExpense
	TransactionTypeTransfer
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeIncome:
		return "Income"
	case TransactionTypeExpense:
		return "Expense"
	case TransactionTypeTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// ParseTransactionType parses "Income", "Expense" or "Transfer".
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "Income":
		return TransactionTypeIncome, nil
	case "Expense":
		return TransactionTypeExpense, nil
	case "Transfer":
		return TransactionTypeTransfer, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q: %w", s, apperr.ErrInvalidArgument)
	}
}

// DefaultCategory is used when a transaction is posted without a category.
const DefaultCategory = "Other"

// IncomeCategories and ExpenseCategories are the suggested category lists.
var (
	IncomeCategories  = []string{"Salary", "Bonus", "Dividend", "Investment", "Other"}
	ExpenseCategories = []string{"Food", "Transport", "Housing", "Utilities", "Entertainment", "Health", "Shopping", "Education", "Travel", "Other"}
)

// NewTransaction is the input for posting a transaction.
type NewTransaction struct {
	AccountID   uuid.UUID
	ToAccountID uuid.UUID // only for transfers
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Date        time.Time // defaults to now if zero
	Note        string
}

// Transaction is a posted, immutable ledger record. Amount is never negative,
// the direction of the balance effect is derived from Type.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	ToAccountID uuid.UUID       `json:"toAccountId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
