package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
)

func TestSeed_PopulatesEmptyUser(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Demo.now = func() time.Time { return june }
	svc.Summary.now = func() time.Time { return june }

	require.NoError(t, svc.Demo.Seed(context.Background(), testSession))

	accounts, _, err := svc.Account.ListAccounts(context.Background(), testSession, nil)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "Credit Card", accounts[0].Name)
	assert.True(t, accounts[0].Balance.Equal(d("-14500")), "card %s", accounts[0].Balance)
	assert.True(t, accounts[1].Balance.Equal(d("205000")), "savings %s", accounts[1].Balance)
	assert.True(t, accounts[2].Balance.Equal(d("3380")), "wallet %s", accounts[2].Balance)

	holdings, err := svc.Portfolio.ListHoldings(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "2330.TW", holdings[0].Symbol)
	assert.True(t, holdings[0].AverageCost.Equal(d("550")))
	assert.True(t, holdings[0].CurrentPrice.Equal(d("980")))

	snap, err := svc.Summary.Snapshot(context.Background(), testSession)
	require.NoError(t, err)
	assert.True(t, snap.StockValue.Equal(d("989250")), "stock %s", snap.StockValue)
	assert.True(t, snap.TotalLiabilities.Equal(d("14500")), "liabilities %s", snap.TotalLiabilities)
	assert.True(t, snap.NetWorth.Equal(d("1183130")), "net worth %s", snap.NetWorth)
}

func TestSeed_RefusesUserWithAccounts(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Demo.Seed(context.Background(), testSession))

	err := svc.Demo.Seed(context.Background(), testSession)

	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	accounts, _, err := svc.Account.ListAccounts(context.Background(), testSession, nil)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}
