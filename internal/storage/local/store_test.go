package local

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

var alice = storage.Session{UserID: "alice"}

func writeAccount(t *testing.T, s *Store, session storage.Session, name string, balance string) model.Account {
	t.Helper()
	ctx := context.Background()
	unit, err := s.Begin(ctx, session, false)
	require.NoError(t, err)
	acc, err := unit.Accounts().Upsert(ctx, model.Account{
		Name:     name,
		Type:     model.AccountTypeBank,
		Balance:  decimal.RequireFromString(balance),
		Currency: "TWD",
	})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(ctx))
	return acc
}

func TestUpsert_AssignsIDAndCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	acc := writeAccount(t, s, alice, "Main Savings", "150000")

	assert.NotEqual(t, uuid.Nil, acc.ID)
	assert.False(t, acc.CreatedAt.IsZero())
}

func TestRollback_DiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	unit, err := s.Begin(ctx, alice, false)
	require.NoError(t, err)
	_, err = unit.Accounts().Upsert(ctx, model.Account{Name: "Wallet"})
	require.NoError(t, err)
	require.NoError(t, unit.Rollback(ctx))

	reader, err := s.Begin(ctx, alice, true)
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	rows, err := reader.Accounts().List(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := writeAccount(t, s, alice, "Main Savings", "100")

	unit, err := s.Begin(ctx, storage.Session{UserID: "bob"}, true)
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	_, err = unit.Accounts().Get(ctx, acc.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReadOnlyUnitRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	unit, err := s.Begin(ctx, alice, true)
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	_, err = unit.Holdings().Upsert(ctx, model.StockHolding{Symbol: "AAPL"})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestUpdateBalanceAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := writeAccount(t, s, alice, "Wallet Cash", "3500")

	unit, err := s.Begin(ctx, alice, false)
	require.NoError(t, err)
	require.NoError(t, unit.Accounts().UpdateBalance(ctx, acc.ID, decimal.RequireFromString("3380")))
	got, err := unit.Accounts().Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("3380")))

	require.NoError(t, unit.Accounts().Delete(ctx, acc.ID))
	err = unit.Accounts().Delete(ctx, acc.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = unit.Accounts().UpdateBalance(ctx, uuid.Must(uuid.NewV4()), decimal.Zero)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	require.NoError(t, unit.Commit(ctx))
}

func TestListAccounts_OrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, name := range []string{"Charlie", "Alpha", "Bravo", "Delta"} {
		writeAccount(t, s, alice, name, "0")
	}

	unit, err := s.Begin(ctx, alice, true)
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	rows, err := unit.Accounts().List(ctx, &storage.AccountFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 3, "limit+1 rows to signal a next page")
	assert.Equal(t, "Bravo", rows[0].Name)
	assert.Equal(t, "Charlie", rows[1].Name)
	assert.Equal(t, "Delta", rows[2].Name)

	rows, err = unit.Accounts().List(ctx, &storage.AccountFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListTransactions_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	accountID := uuid.Must(uuid.NewV4())
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	unit, err := s.Begin(ctx, alice, false)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := unit.Transactions().Upsert(ctx, model.Transaction{
			AccountID: accountID,
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Type:      model.TransactionTypeExpense,
			Date:      base.AddDate(0, 0, i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err = unit.Transactions().Upsert(ctx, model.Transaction{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.NewFromInt(9),
		Date:      base,
		CreatedAt: base,
	})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(ctx))

	reader, err := s.Begin(ctx, alice, true)
	require.NoError(t, err)
	defer reader.Rollback(ctx)

	rows, err := reader.Transactions().List(ctx, &storage.TransactionFilter{AccountID: &accountID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(3)), "newest date first")

	maxCreation := base.Add(time.Hour)
	rows, err = reader.Transactions().List(ctx, &storage.TransactionFilter{AccountID: &accountID, MaxCreationTime: &maxCreation})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestHoldings_KeyedBySymbol(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	unit, err := s.Begin(ctx, alice, false)
	require.NoError(t, err)
	_, err = unit.Holdings().Upsert(ctx, model.StockHolding{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)
	_, err = unit.Holdings().Upsert(ctx, model.StockHolding{Symbol: "AAPL", Quantity: 20})
	require.NoError(t, err)
	_, err = unit.Holdings().Upsert(ctx, model.StockHolding{})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	rows, err := unit.Holdings().List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(20), rows[0].Quantity)

	require.NoError(t, unit.Holdings().Delete(ctx, "AAPL"))
	_, err = unit.Holdings().Get(ctx, "AAPL")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	require.NoError(t, unit.Commit(ctx))
}

func TestBegin_HonoursContextWhileWriterHoldsStore(t *testing.T) {
	s := NewMemoryStore()
	writer, err := s.Begin(context.Background(), alice, false)
	require.NoError(t, err)
	defer writer.Rollback(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Begin(ctx, alice, true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "finance.json")

	s, err := Open(path)
	require.NoError(t, err)
	acc := writeAccount(t, s, alice, "Main Savings", "150000")

	ctx := context.Background()
	unit, err := s.Begin(ctx, alice, false)
	require.NoError(t, err)
	_, err = unit.Holdings().Upsert(ctx, model.StockHolding{Symbol: "2330.TW", Name: "TSMC", Quantity: 1000, AverageCost: decimal.NewFromInt(550)})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(ctx))

	reopened, err := Open(path)
	require.NoError(t, err)
	reader, err := reopened.Begin(ctx, alice, true)
	require.NoError(t, err)
	defer reader.Rollback(ctx)

	got, err := reader.Accounts().Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Savings", got.Name)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("150000")))

	h, err := reader.Holdings().Get(ctx, "2330.TW")
	require.NoError(t, err)
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(550)))
}
