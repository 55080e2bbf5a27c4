package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

// DeleteAccount removes an account. Transactions that reference it are kept.
type DeleteAccount struct {
	ID uuid.UUID
}

func (d *DeleteAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := writer.Lock(ctx, storage.KindAccount, d.ID.String()); err != nil {
		return err
	}
	return writer.Accounts.Delete(ctx, d.ID)
}
