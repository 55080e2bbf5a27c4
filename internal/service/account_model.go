package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
)

// NewAccount is the input for creating an account. An empty Currency takes
// the configured default.
type NewAccount struct {
	Name     string
	Type     model.AccountType
	Balance  decimal.Decimal
	Currency string
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}
