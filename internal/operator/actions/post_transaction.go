package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/ledger"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

// PostTransaction records a transaction and applies its postings to the
// account balances in the same unit of work.
type PostTransaction struct {
	Input model.NewTransaction
	Clock

	Result   model.Transaction
	Balances map[uuid.UUID]model.Account
}

func (t *PostTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ledger.Validate(t.Input); err != nil {
		return err
	}

	accounts := make(map[uuid.UUID]model.Account, 2)
	for _, id := range ledger.AccountIDs(t.Input) {
		if err := writer.Lock(ctx, storage.KindAccount, id.String()); err != nil {
			return err
		}
		account, err := writer.Accounts.Get(ctx, id)
		if err != nil {
			return err
		}
		accounts[id] = account
	}

	now := t.now()
	record := model.Transaction{
		AccountID:   t.Input.AccountID,
		ToAccountID: t.Input.ToAccountID,
		Amount:      t.Input.Amount,
		Type:        t.Input.Type,
		Category:    t.Input.Category,
		Date:        t.Input.Date,
		Note:        t.Input.Note,
		CreatedAt:   now,
	}
	if record.Date.IsZero() {
		record.Date = now
	}
	if record.Category == "" {
		record.Category = model.DefaultCategory
	}

	saved, err := writer.Transactions.Upsert(ctx, record)
	if err != nil {
		return err
	}

	for _, posting := range ledger.Postings(saved) {
		account := accounts[posting.AccountID]
		account.Balance = ledger.Apply(account.Balance, posting)
		if err := writer.Accounts.UpdateBalance(ctx, account.ID, account.Balance); err != nil {
			return err
		}
		accounts[posting.AccountID] = account
	}

	t.Result = saved
	t.Balances = accounts
	return nil
}

func (t *PostTransaction) Events() []events.Event {
	return []events.Event{{Type: events.TransactionPosted, OccurredAt: t.Result.CreatedAt, Payload: t.Result}}
}
