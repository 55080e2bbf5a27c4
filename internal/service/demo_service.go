package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

type demoAccount struct {
	name    string
	kind    model.AccountType
	balance int64
}

type demoTransaction struct {
	account  int // index into demoAccounts
	amount   int64
	kind     model.TransactionType
	category string
	daysAgo  int
	note     string
}

type demoHolding struct {
	symbol       string
	quantity     int64
	averageCost  int64
	currentPrice int64
}

var (
	demoAccounts = []demoAccount{
		{name: "Main Savings", kind: model.AccountTypeBank, balance: 150000},
		{name: "Wallet Cash", kind: model.AccountTypeCash, balance: 3500},
		{name: "Credit Card", kind: model.AccountTypeCredit, balance: -12000},
	}
	demoTransactions = []demoTransaction{
		{account: 0, amount: 55000, kind: model.TransactionTypeIncome, category: "Salary", daysAgo: 5, note: "Monthly Salary"},
		{account: 1, amount: 120, kind: model.TransactionTypeExpense, category: "Food", daysAgo: 1, note: "Lunch"},
		{account: 2, amount: 2500, kind: model.TransactionTypeExpense, category: "Transport", daysAgo: 3, note: "HSR Ticket"},
	}
	demoHoldings = []demoHolding{
		{symbol: "2330.TW", quantity: 1000, averageCost: 550, currentPrice: 980},
		{symbol: "AAPL", quantity: 50, averageCost: 140, currentPrice: 185},
	}
)

// DemoService fills an empty user with sample accounts, postings and holdings.
type DemoService struct {
	storage     *storage.Storage
	account     *AccountService
	transaction *TransactionService
	portfolio   *PortfolioService
	now         func() time.Time
}

func NewDemoService(store *storage.Storage, account *AccountService, transaction *TransactionService, portfolio *PortfolioService) *DemoService {
	return &DemoService{
		storage:     store,
		account:     account,
		transaction: transaction,
		portfolio:   portfolio,
		now:         time.Now,
	}
}

// Seed writes the sample data through the regular write path, so balances and
// holdings come out of the same postings and trades a client would make.
// Users that already own an account are left alone.
func (s *DemoService) Seed(ctx context.Context, session storage.Session) error {
	err := s.storage.Read(ctx, session, func(r *storage.Reader) error {
		existing, err := r.Accounts.List(ctx, &storage.AccountFilter{Limit: 1})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("user %s already has accounts: %w", session.UserID, apperr.ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return err
	}

	now := s.now()
	accounts := make([]model.Account, len(demoAccounts))
	for i, a := range demoAccounts {
		accounts[i], err = s.account.CreateAccount(ctx, session, NewAccount{
			Name:    a.name,
			Type:    a.kind,
			Balance: decimal.NewFromInt(a.balance),
		})
		if err != nil {
			return fmt.Errorf("seed account %q: %w", a.name, err)
		}
	}

	for _, tx := range demoTransactions {
		_, err = s.transaction.PostTransaction(ctx, session, model.NewTransaction{
			AccountID: accounts[tx.account].ID,
			Amount:    decimal.NewFromInt(tx.amount),
			Type:      tx.kind,
			Category:  tx.category,
			Date:      now.AddDate(0, 0, -tx.daysAgo),
			Note:      tx.note,
		})
		if err != nil {
			return fmt.Errorf("seed transaction %q: %w", tx.note, err)
		}
	}

	for _, h := range demoHoldings {
		_, err = s.portfolio.ApplyTrade(ctx, session, model.NewStockTrade{
			Symbol:   h.symbol,
			Type:     model.TradeTypeBuy,
			Quantity: h.quantity,
			Price:    decimal.NewFromInt(h.averageCost),
			Date:     now,
		})
		if err != nil {
			return fmt.Errorf("seed holding %s: %w", h.symbol, err)
		}
		if _, err = s.portfolio.RepriceHolding(ctx, session, h.symbol, decimal.NewFromInt(h.currentPrice)); err != nil {
			return fmt.Errorf("seed price %s: %w", h.symbol, err)
		}
	}
	return nil
}
