package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

func ownedBy(userID string) bob.Mod[*dialect.SelectQuery] {
	return sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID)))
}

func notFound(err error, what string, key any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, key, apperr.ErrNotFound)
	}
	return err
}

// expectRow turns a zero-row UPDATE or DELETE into ErrNotFound.
func expectRow(res sql.Result, err error, what string, key any) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, key, apperr.ErrNotFound)
	}
	return nil
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("postgres: generate id: %w", err)
	}
	return id, nil
}

type accountTable struct {
	exec   bob.Executor
	userID string
}

// List returns accounts ordered by name. Nil filter returns all.
func (t *accountTable) List(ctx context.Context, filter *storage.AccountFilter) ([]model.Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		ownedBy(t.userID),
	}
	if filter != nil {
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}
	result := make([]model.Account, len(rows))
	for i, row := range rows {
		result[i] = row.toModel()
	}
	return result, nil
}

func (t *accountTable) Get(ctx context.Context, id uuid.UUID) (model.Account, error) {
	q := psql.Select(
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		ownedBy(t.userID),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[accountRow]())
	if err != nil {
		return model.Account{}, notFound(err, "account", id)
	}
	return row.toModel(), nil
}

func (t *accountTable) Upsert(ctx context.Context, account model.Account) (model.Account, error) {
	if account.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.Account{}, err
		}
		account.ID = id
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	q := psql.Insert(
		im.Into("accounts", "user_id", "id", "name", "type", "balance", "currency", "created_at"),
		im.Values(
			psql.Arg(t.userID),
			psql.Arg(account.ID),
			psql.Arg(account.Name),
			psql.Arg(int16(account.Type)),
			psql.Arg(account.Balance),
			psql.Arg(account.Currency),
			psql.Arg(account.CreatedAt),
		),
		im.OnConflict("user_id", "id").DoUpdate(
			im.SetExcluded("name", "type", "balance", "currency"),
		),
	)
	if _, err := bob.Exec(ctx, t.exec, q); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

func (t *accountTable) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("balance").ToArg(balance),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(t.userID))),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	return expectRow(res, err, "account", id)
}

func (t *accountTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("accounts"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(t.userID))),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	return expectRow(res, err, "account", id)
}

type transactionTable struct {
	exec   bob.Executor
	userID string
}

// List returns transactions newest first. A filter on AccountID matches
// either side of a transfer.
func (t *transactionTable) List(ctx context.Context, filter *storage.TransactionFilter) ([]model.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From("transactions"),
		ownedBy(t.userID),
	}
	if filter != nil {
		if filter.AccountID != nil {
			queryMods = append(queryMods, sm.Where(psql.Or(
				psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID)),
				psql.Quote("to_account_id").EQ(psql.Arg(*filter.AccountID)),
			)))
		}
		if filter.MaxCreationTime != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("date").Desc(),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	result := make([]model.Transaction, len(rows))
	for i, row := range rows {
		result[i] = row.toModel()
	}
	return result, nil
}

func (t *transactionTable) Get(ctx context.Context, id uuid.UUID) (model.Transaction, error) {
	q := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From("transactions"),
		ownedBy(t.userID),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return model.Transaction{}, notFound(err, "transaction", id)
	}
	return row.toModel(), nil
}

func (t *transactionTable) Upsert(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	if tx.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.Transaction{}, err
		}
		tx.ID = id
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	toAccount := uuid.NullUUID{UUID: tx.ToAccountID, Valid: tx.ToAccountID != uuid.Nil}

	q := psql.Insert(
		im.Into("transactions", "user_id", "id", "account_id", "to_account_id", "amount", "type", "category", "date", "note", "created_at"),
		im.Values(
			psql.Arg(t.userID),
			psql.Arg(tx.ID),
			psql.Arg(tx.AccountID),
			psql.Arg(toAccount),
			psql.Arg(tx.Amount),
			psql.Arg(int16(tx.Type)),
			psql.Arg(tx.Category),
			psql.Arg(tx.Date),
			psql.Arg(tx.Note),
			psql.Arg(tx.CreatedAt),
		),
		im.OnConflict("user_id", "id").DoUpdate(
			im.SetExcluded("account_id", "to_account_id", "amount", "type", "category", "date", "note"),
		),
	)
	if _, err := bob.Exec(ctx, t.exec, q); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (t *transactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(t.userID))),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	return expectRow(res, err, "transaction", id)
}

type holdingTable struct {
	exec   bob.Executor
	userID string
}

func (t *holdingTable) List(ctx context.Context) ([]model.StockHolding, error) {
	q := psql.Select(
		sm.Columns(holdingColumns...),
		sm.From("stocks"),
		ownedBy(t.userID),
		sm.OrderBy("symbol").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[holdingRow]())
	if err != nil {
		return nil, err
	}
	result := make([]model.StockHolding, len(rows))
	for i, row := range rows {
		result[i] = row.toModel()
	}
	return result, nil
}

func (t *holdingTable) Get(ctx context.Context, symbol string) (model.StockHolding, error) {
	q := psql.Select(
		sm.Columns(holdingColumns...),
		sm.From("stocks"),
		ownedBy(t.userID),
		sm.Where(psql.Quote("symbol").EQ(psql.Arg(symbol))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[holdingRow]())
	if err != nil {
		return model.StockHolding{}, notFound(err, "holding", symbol)
	}
	return row.toModel(), nil
}

func (t *holdingTable) Upsert(ctx context.Context, holding model.StockHolding) (model.StockHolding, error) {
	if holding.Symbol == "" {
		return model.StockHolding{}, fmt.Errorf("holding without symbol: %w", apperr.ErrInvalidArgument)
	}

	q := psql.Insert(
		im.Into("stocks", "user_id", "symbol", "name", "quantity", "average_cost", "current_price", "last_updated"),
		im.Values(
			psql.Arg(t.userID),
			psql.Arg(holding.Symbol),
			psql.Arg(holding.Name),
			psql.Arg(holding.Quantity),
			psql.Arg(holding.AverageCost),
			psql.Arg(holding.CurrentPrice),
			psql.Arg(holding.LastUpdated),
		),
		im.OnConflict("user_id", "symbol").DoUpdate(
			im.SetExcluded("name", "quantity", "average_cost", "current_price", "last_updated"),
		),
	)
	if _, err := bob.Exec(ctx, t.exec, q); err != nil {
		return model.StockHolding{}, err
	}
	return holding, nil
}

func (t *holdingTable) Delete(ctx context.Context, symbol string) error {
	q := psql.Delete(
		dm.From("stocks"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(t.userID))),
		dm.Where(psql.Quote("symbol").EQ(psql.Arg(symbol))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	return expectRow(res, err, "holding", symbol)
}

type tradeTable struct {
	exec   bob.Executor
	userID string
}

func (t *tradeTable) List(ctx context.Context) ([]model.StockTrade, error) {
	q := psql.Select(
		sm.Columns(tradeColumns...),
		sm.From("trades"),
		ownedBy(t.userID),
		sm.OrderBy("date").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[tradeRow]())
	if err != nil {
		return nil, err
	}
	result := make([]model.StockTrade, len(rows))
	for i, row := range rows {
		result[i] = row.toModel()
	}
	return result, nil
}

func (t *tradeTable) Get(ctx context.Context, id uuid.UUID) (model.StockTrade, error) {
	q := psql.Select(
		sm.Columns(tradeColumns...),
		sm.From("trades"),
		ownedBy(t.userID),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[tradeRow]())
	if err != nil {
		return model.StockTrade{}, notFound(err, "trade", id)
	}
	return row.toModel(), nil
}

func (t *tradeTable) Upsert(ctx context.Context, trade model.StockTrade) (model.StockTrade, error) {
	if trade.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return model.StockTrade{}, err
		}
		trade.ID = id
	}

	q := psql.Insert(
		im.Into("trades", "user_id", "id", "symbol", "type", "quantity", "price", "fee", "date"),
		im.Values(
			psql.Arg(t.userID),
			psql.Arg(trade.ID),
			psql.Arg(trade.Symbol),
			psql.Arg(int16(trade.Type)),
			psql.Arg(trade.Quantity),
			psql.Arg(trade.Price),
			psql.Arg(trade.Fee),
			psql.Arg(trade.Date),
		),
		im.OnConflict("user_id", "id").DoUpdate(
			im.SetExcluded("symbol", "type", "quantity", "price", "fee", "date"),
		),
	)
	if _, err := bob.Exec(ctx, t.exec, q); err != nil {
		return model.StockTrade{}, err
	}
	return trade, nil
}

func (t *tradeTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("trades"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(t.userID))),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	return expectRow(res, err, "trade", id)
}
