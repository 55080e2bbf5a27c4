package account

import (
	"time"

	"github.com/carson-networks/finance-server/internal/model"
)

// Account is the API response model for an account.
type Account struct {
	ID        string `json:"id" doc:"Account UUID"`
	Name      string `json:"name" doc:"Account name"`
	Type      string `json:"type" doc:"Account type: Bank, Cash, Credit Card or Investment"`
	Balance   string `json:"balance" doc:"Decimal balance, negative for debt"`
	Currency  string `json:"currency" doc:"ISO currency code"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromModel(acc model.Account) Account {
	return Account{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Type:      acc.Type.String(),
		Balance:   acc.Balance.String(),
		Currency:  acc.Currency,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}
}
