package transaction

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/model"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	AccountID   string `json:"accountID" doc:"Account UUID"`
	ToAccountID string `json:"toAccountID,omitempty" doc:"Destination account UUID, only for transfers"`
	Amount      string `json:"amount" doc:"Non-negative decimal amount"`
	Type        string `json:"type" doc:"Income, Expense or Transfer"`
	Category    string `json:"category" doc:"Category name"`
	Date        string `json:"date" doc:"RFC3339 transaction date"`
	Note        string `json:"note,omitempty" doc:"Free-form note"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 time the transaction was recorded"`
}

func fromModel(tx model.Transaction) Transaction {
	out := Transaction{
		ID:        tx.ID.String(),
		AccountID: tx.AccountID.String(),
		Amount:    tx.Amount.String(),
		Type:      tx.Type.String(),
		Category:  tx.Category,
		Date:      tx.Date.Format(time.RFC3339),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339Nano),
	}
	if tx.ToAccountID != uuid.Nil {
		out.ToAccountID = tx.ToAccountID.String()
	}
	return out
}
