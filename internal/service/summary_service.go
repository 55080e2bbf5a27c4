package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
	"github.com/carson-networks/finance-server/internal/storage"
)

// SummaryService builds the dashboard snapshot.
type SummaryService struct {
	storage *storage.Storage
	now     func() time.Time
}

func NewSummaryService(store *storage.Storage) *SummaryService {
	return &SummaryService{storage: store, now: time.Now}
}

// Snapshot reads everything the user owns in one consistent view and
// summarises it.
func (s *SummaryService) Snapshot(ctx context.Context, session storage.Session) (model.FinancialSnapshot, error) {
	var (
		accounts     []model.Account
		transactions []model.Transaction
		holdings     []model.StockHolding
	)
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		var err error
		if accounts, err = r.Accounts.List(ctx, nil); err != nil {
			return err
		}
		if transactions, err = r.Transactions.List(ctx, nil); err != nil {
			return err
		}
		holdings, err = r.Holdings.List(ctx)
		return err
	})
	if err != nil {
		return model.FinancialSnapshot{}, err
	}

	return BuildSnapshot(accounts, transactions, holdings, s.now()), nil
}

// BuildSnapshot summarises balances, holdings and transactions. Negative
// balances count as liabilities. The monthly figures cover the calendar month
// of now.
func BuildSnapshot(accounts []model.Account, transactions []model.Transaction, holdings []model.StockHolding, now time.Time) model.FinancialSnapshot {
	var snap model.FinancialSnapshot

	for _, acc := range accounts {
		snap.CashBalance = snap.CashBalance.Add(acc.Balance)
		if acc.Balance.IsNegative() {
			snap.TotalLiabilities = snap.TotalLiabilities.Add(acc.Balance.Neg())
		} else {
			snap.TotalAssets = snap.TotalAssets.Add(acc.Balance)
		}
	}

	for _, h := range holdings {
		snap.StockValue = snap.StockValue.Add(portfolio.Value(h).MarketValue)
	}
	snap.TotalAssets = snap.TotalAssets.Add(snap.StockValue)
	snap.NetWorth = snap.CashBalance.Add(snap.StockValue)

	year, month, _ := now.Date()
	byCategory := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		txYear, txMonth, _ := tx.Date.In(now.Location()).Date()
		thisMonth := txYear == year && txMonth == month

		switch tx.Type {
		case model.TransactionTypeIncome:
			snap.TotalIncome = snap.TotalIncome.Add(tx.Amount)
			if thisMonth {
				snap.MonthlyIncome = snap.MonthlyIncome.Add(tx.Amount)
			}
		case model.TransactionTypeExpense:
			snap.TotalExpense = snap.TotalExpense.Add(tx.Amount)
			if thisMonth {
				snap.MonthlyExpense = snap.MonthlyExpense.Add(tx.Amount)
			}
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}
	}

	snap.ExpensesByCategory = make([]model.CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		snap.ExpensesByCategory = append(snap.ExpensesByCategory, model.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(snap.ExpensesByCategory, func(i, j int) bool {
		a, b := snap.ExpensesByCategory[i], snap.ExpensesByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	return snap
}
