package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
)

var now = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func trade(side model.TradeType, qty int64, price, fee string) model.StockTrade {
	return model.StockTrade{
		Symbol:   "AAPL",
		Type:     side,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		Fee:      decimal.RequireFromString(fee),
		Date:     now,
	}
}

func TestApply_Scenario(t *testing.T) {
	h, err := Apply(nil, trade(model.TradeTypeBuy, 100, "10", "5"), now)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, int64(100), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("10.05")), h.AverageCost.String())
	assert.Equal(t, "AAPL", h.Name)

	h, err = Apply(h, trade(model.TradeTypeBuy, 100, "20", "0"), now)
	require.NoError(t, err)
	assert.Equal(t, int64(200), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("15.025")), h.AverageCost.String())
	assert.True(t, h.CurrentPrice.Equal(decimal.RequireFromString("20")))

	h, err = Apply(h, trade(model.TradeTypeSell, 150, "25", "0"), now)
	require.NoError(t, err)
	assert.Equal(t, int64(50), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.RequireFromString("15.025")), h.AverageCost.String())
	assert.True(t, h.CurrentPrice.Equal(decimal.RequireFromString("20")), "sell does not touch current price")

	h, err = Apply(h, trade(model.TradeTypeSell, 50, "25", "0"), now)
	require.NoError(t, err)
	assert.Nil(t, h, "position closed")
}

func TestApply_AverageCostIsTotalCostOverQuantity(t *testing.T) {
	buys := []model.StockTrade{
		trade(model.TradeTypeBuy, 10, "12.5", "1"),
		trade(model.TradeTypeBuy, 30, "11", "2.5"),
		trade(model.TradeTypeBuy, 60, "14.25", "0"),
	}

	var h *model.StockHolding
	totalCost := decimal.Zero
	var totalQty int64
	for _, b := range buys {
		var err error
		h, err = Apply(h, b, now)
		require.NoError(t, err)
		totalCost = totalCost.Add(b.Price.Mul(decimal.NewFromInt(b.Quantity))).Add(b.Fee)
		totalQty += b.Quantity
	}

	assert.Equal(t, totalQty, h.Quantity)
	expected := totalCost.Div(decimal.NewFromInt(totalQty))
	assert.True(t, h.AverageCost.Equal(expected), "got %s want %s", h.AverageCost, expected)
}

func TestApply_IdenticalBuysOrderIndependent(t *testing.T) {
	a := trade(model.TradeTypeBuy, 25, "40", "1")
	b := trade(model.TradeTypeBuy, 25, "40", "1")
	b.Date = now.Add(time.Minute)

	first, err := Apply(nil, a, now)
	require.NoError(t, err)
	first, err = Apply(first, b, now)
	require.NoError(t, err)

	second, err := Apply(nil, b, now)
	require.NoError(t, err)
	second, err = Apply(second, a, now)
	require.NoError(t, err)

	assert.True(t, first.AverageCost.Equal(second.AverageCost))
	assert.Equal(t, first.Quantity, second.Quantity)
}

func TestApply_SellNeverChangesAverageCost(t *testing.T) {
	h, err := Apply(nil, trade(model.TradeTypeBuy, 1000, "3.33", "7"), now)
	require.NoError(t, err)
	avg := h.AverageCost

	for _, qty := range []int64{1, 10, 100, 500} {
		h, err = Apply(h, trade(model.TradeTypeSell, qty, "99", "3"), now)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.True(t, h.AverageCost.Equal(avg))
	}
	assert.Equal(t, int64(389), h.Quantity)
}

func TestApply_OversellClosesPosition(t *testing.T) {
	h, err := Apply(nil, trade(model.TradeTypeBuy, 10, "10", "0"), now)
	require.NoError(t, err)

	h, err = Apply(h, trade(model.TradeTypeSell, 11, "10", "0"), now)
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestApply_SellWithoutHolding(t *testing.T) {
	h, err := Apply(nil, trade(model.TradeTypeSell, 1, "10", "0"), now)
	assert.Nil(t, h)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestApply_KeepsExistingName(t *testing.T) {
	current := &model.StockHolding{Symbol: "2330.TW", Name: "TSMC", Quantity: 1000, AverageCost: decimal.NewFromInt(550), CurrentPrice: decimal.NewFromInt(980)}
	buy := trade(model.TradeTypeBuy, 1000, "1000", "0")
	buy.Symbol = "2330.TW"

	h, err := Apply(current, buy, now)
	require.NoError(t, err)
	assert.Equal(t, "TSMC", h.Name)
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(775)))
	assert.Equal(t, int64(1000), current.Quantity, "input holding is not mutated")
}

// -- Validate tests --

func TestValidate_Rejects(t *testing.T) {
	valid := model.NewStockTrade{Symbol: "aapl", Type: model.TradeTypeBuy, Quantity: 1, Price: decimal.NewFromInt(1), Fee: decimal.Zero}
	assert.NoError(t, Validate(valid))

	cases := map[string]func(*model.NewStockTrade){
		"empty symbol":  func(n *model.NewStockTrade) { n.Symbol = "  " },
		"zero quantity": func(n *model.NewStockTrade) { n.Quantity = 0 },
		"zero price":    func(n *model.NewStockTrade) { n.Price = decimal.Zero },
		"negative fee":  func(n *model.NewStockTrade) { n.Fee = decimal.NewFromInt(-1) },
		"unknown type":  func(n *model.NewStockTrade) { n.Type = model.TradeType(9) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			assert.True(t, errors.Is(Validate(in), apperr.ErrInvalidArgument))
		})
	}
}

// -- Reprice / Value tests --

func TestReprice(t *testing.T) {
	h := model.StockHolding{Symbol: "AAPL", Quantity: 5, AverageCost: decimal.NewFromInt(10), CurrentPrice: decimal.NewFromInt(10)}
	later := now.Add(time.Hour)

	updated, err := Reprice(h, decimal.RequireFromString("12.5"), later)
	assert.NoError(t, err)
	assert.True(t, updated.CurrentPrice.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, later, updated.LastUpdated)
	assert.True(t, updated.AverageCost.Equal(h.AverageCost))

	_, err = Reprice(h, decimal.NewFromInt(-1), later)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestValue(t *testing.T) {
	v := Value(model.StockHolding{Quantity: 50, AverageCost: decimal.RequireFromString("15.025"), CurrentPrice: decimal.RequireFromString("20")})
	assert.True(t, v.MarketValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, v.CostBasis.Equal(decimal.RequireFromString("751.25")))
	assert.True(t, v.UnrealizedPnL.Equal(decimal.RequireFromString("248.75")))

	pct, ok := v.UnrealizedPnLPercent()
	assert.True(t, ok)
	assert.True(t, pct.Round(4).Equal(decimal.RequireFromString("33.1115")), pct.String())
}

func TestValue_ZeroCostBasisPercentUndefined(t *testing.T) {
	v := Value(model.StockHolding{Quantity: 10, AverageCost: decimal.Zero, CurrentPrice: decimal.NewFromInt(3)})
	assert.True(t, v.MarketValue.Equal(decimal.NewFromInt(30)))

	_, ok := v.UnrealizedPnLPercent()
	assert.False(t, ok)
}
