package local

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-server/internal/storage"
)

var (
	errReadOnly = errors.New("local: unit is read-only")
	errDone     = errors.New("local: unit already committed or rolled back")
)

type unit struct {
	store    *Store
	userID   string
	data     *userData
	readOnly bool
	weight   int64
	done     bool
}

var _ storage.Unit = (*unit)(nil)

func (u *unit) Accounts() storage.IAccountTable         { return &accountTable{u: u} }
func (u *unit) Transactions() storage.ITransactionTable { return &transactionTable{u: u} }
func (u *unit) Holdings() storage.IHoldingTable         { return &holdingTable{u: u} }
func (u *unit) Trades() storage.ITradeTable             { return &tradeTable{u: u} }

// Lock is satisfied by the writer's exclusive hold on the store.
func (u *unit) Lock(ctx context.Context, _ storage.Kind, _ string) error {
	if u.done {
		return errDone
	}
	return ctx.Err()
}

func (u *unit) Commit(_ context.Context) error {
	if u.done {
		return errDone
	}
	defer u.release()

	if u.readOnly {
		return nil
	}
	if err := u.store.persist(u.userID, u.data); err != nil {
		return err
	}
	u.store.users[u.userID] = u.data
	return nil
}

func (u *unit) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.release()
	return nil
}

func (u *unit) release() {
	u.done = true
	u.store.sem.Release(u.weight)
}

func (u *unit) readable() error {
	if u.done {
		return errDone
	}
	return nil
}

func (u *unit) writable() error {
	if u.done {
		return errDone
	}
	if u.readOnly {
		return errReadOnly
	}
	return nil
}
