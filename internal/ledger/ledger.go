// Package ledger holds the balance rules for posted transactions. It is pure:
// reading and writing balances is left to the operator actions.
package ledger

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
)

// Posting is the signed effect of a transaction on one account.
type Posting struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

// Validate checks a transaction before anything is persisted.
func Validate(tx model.NewTransaction) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("amount %s must not be negative: %w", tx.Amount, apperr.ErrInvalidArgument)
	}

	switch tx.Type {
	case model.TransactionTypeIncome, model.TransactionTypeExpense:
		if tx.ToAccountID != uuid.Nil {
			return fmt.Errorf("toAccountId is only allowed on transfers: %w", apperr.ErrInvalidArgument)
		}
	case model.TransactionTypeTransfer:
		if tx.ToAccountID == uuid.Nil {
			return fmt.Errorf("transfer requires toAccountId: %w", apperr.ErrInvalidArgument)
		}
		if tx.ToAccountID == tx.AccountID {
			return fmt.Errorf("transfer source and destination are the same account: %w", apperr.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("unsupported transaction type %d: %w", tx.Type, apperr.ErrInvalidArgument)
	}
	return nil
}

// Postings returns the balance effects of tx. Income and Expense touch one
// account, a Transfer debits the source and credits the destination.
func Postings(tx model.Transaction) []Posting {
	switch tx.Type {
	case model.TransactionTypeIncome:
		return []Posting{{AccountID: tx.AccountID, Delta: tx.Amount}}
	case model.TransactionTypeExpense:
		return []Posting{{AccountID: tx.AccountID, Delta: tx.Amount.Neg()}}
	case model.TransactionTypeTransfer:
		return []Posting{
			{AccountID: tx.AccountID, Delta: tx.Amount.Neg()},
			{AccountID: tx.ToAccountID, Delta: tx.Amount},
		}
	default:
		return nil
	}
}

// Apply returns the balance after the posting.
func Apply(balance decimal.Decimal, p Posting) decimal.Decimal {
	return balance.Add(p.Delta)
}

// AccountIDs returns the accounts touched by tx in ascending order, the order
// in which their locks must be taken.
func AccountIDs(tx model.NewTransaction) []uuid.UUID {
	if tx.Type != model.TransactionTypeTransfer {
		return []uuid.UUID{tx.AccountID}
	}
	if tx.AccountID.String() < tx.ToAccountID.String() {
		return []uuid.UUID{tx.AccountID, tx.ToAccountID}
	}
	return []uuid.UUID{tx.ToAccountID, tx.AccountID}
}
