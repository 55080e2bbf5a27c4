package service

import (
	"context"
	"fmt"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/storage"
)

// AdviceService feeds the user's data to the advisor.
type AdviceService struct {
	storage *storage.Storage
	advisor advisor
}

func NewAdviceService(store *storage.Storage, adv advisor) *AdviceService {
	return &AdviceService{storage: store, advisor: adv}
}

// Advise returns the advisor's commentary on the user's finances. Only
// reading the data can fail; the advisor itself answers with placeholders.
func (s *AdviceService) Advise(ctx context.Context, session storage.Session) (string, error) {
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
		return "", err
	}

	return s.advisor.Advise(ctx, accounts, transactions, holdings), nil
}

// AnalyzeStock describes one symbol. The user need not hold it.
func (s *AdviceService) AnalyzeStock(ctx context.Context, session storage.Session, symbol string) (string, error) {
	if session.UserID == "" {
		return "", fmt.Errorf("service: no active session: %w", apperr.ErrUnauthenticated)
	}
	return s.advisor.AnalyzeStock(ctx, model.NormalizeSymbol(symbol)), nil
}
