package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
)

// AccountType represents the kind of account.
type AccountType int8

const (
	AccountTypeBank AccountType = iota
	AccountTypeCash
	AccountTypeCredit
	AccountTypeInvestment
)

var accountTypeNames = map[AccountType]string{
	AccountTypeBank:       "Bank",
	AccountTypeCash:       "Cash",
	AccountTypeCredit:     "Credit Card",
	AccountTypeInvestment: "Investment",
}

func (t AccountType) String() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether t is one of the declared account types.
func (t AccountType) Valid() bool {
	_, ok := accountTypeNames[t]
	return ok
}

// ParseAccountType parses the display name of an account type.
func ParseAccountType(s string) (AccountType, error) {
	for t, name := range accountTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown account type %q: %w", s, apperr.ErrInvalidArgument)
}

// Account represents a money account owned by a user.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
}
