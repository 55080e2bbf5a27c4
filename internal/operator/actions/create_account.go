package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

type CreateAccount struct {
	Name     string
	Type     model.AccountType
	Balance  decimal.Decimal
	Currency string
	Clock

	Result model.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("account name is required: %w", apperr.ErrInvalidArgument)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("unknown account type %d: %w", c.Type, apperr.ErrInvalidArgument)
	}
	if c.Currency == "" {
		return fmt.Errorf("currency is required: %w", apperr.ErrInvalidArgument)
	}

	account, err := writer.Accounts.Upsert(ctx, model.Account{
		Name:      name,
		Type:      c.Type,
		Balance:   c.Balance,
		Currency:  c.Currency,
		CreatedAt: c.now(),
	})
	if err != nil {
		return err
	}

	c.Result = account
	return nil
}
