package service

import (
	"context"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/pricing"
	"github.com/carson-networks/finance-server/internal/storage"
)

// advisor is the text collaborator behind AdviceService. It never fails.
type advisor interface {
	Advise(ctx context.Context, accounts []model.Account, transactions []model.Transaction, holdings []model.StockHolding) string
	AnalyzeStock(ctx context.Context, symbol string) string
}

// Options carries the collaborators that are not storage.
type Options struct {
	DefaultCurrency string
	Prices          pricing.Source
	Advisor         advisor
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Portfolio   *PortfolioService
	Summary     *SummaryService
	Advice      *AdviceService
	Demo        *DemoService
}

// NewService creates a new Service. Reads go straight to storage, writes go
// through the operator.
func NewService(store *storage.Storage, op *operator.OperatorDelegator, opts Options) *Service {
	svc := &Service{
		Transaction: NewTransactionService(store, op),
		Account:     NewAccountService(store, op, opts.DefaultCurrency),
		Portfolio:   NewPortfolioService(store, op, opts.Prices),
		Summary:     NewSummaryService(store),
		Advice:      NewAdviceService(store, opts.Advisor),
	}
	svc.Demo = NewDemoService(store, svc.Account, svc.Transaction, svc.Portfolio)
	return svc
}
