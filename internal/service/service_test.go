package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/local"
)

var testSession = storage.Session{UserID: "user-1"}

type mockAdvisor struct {
	mock.Mock
}

func (m *mockAdvisor) Advise(ctx context.Context, accounts []model.Account, transactions []model.Transaction, holdings []model.StockHolding) string {
	return m.Called(ctx, accounts, transactions, holdings).String(0)
}

func (m *mockAdvisor) AnalyzeStock(ctx context.Context, symbol string) string {
	return m.Called(ctx, symbol).String(0)
}

type fixedPrices struct {
	price decimal.Decimal
}

func (p fixedPrices) Quote(_ context.Context, _ model.StockHolding) (decimal.Decimal, error) {
	return p.price, nil
}

// newTestService wires the services to an in-memory store and a running operator.
func newTestService(t *testing.T) (*Service, *mockAdvisor) {
	t.Helper()
	store := storage.NewStorage(local.NewMemoryStore())
	op := operator.NewOperatorDelegator(store, 2, nil)
	op.Start()
	t.Cleanup(op.Stop)

	adv := &mockAdvisor{}
	svc := NewService(store, op, Options{
		DefaultCurrency: "TWD",
		Prices:          fixedPrices{price: decimal.NewFromInt(30)},
		Advisor:         adv,
	})
	return svc, adv
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var june = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
