// Package pricing supplies fresh quotes for held symbols.
package pricing

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/model"
)

// Source quotes the current price of a holding.
type Source interface {
	Quote(ctx context.Context, holding model.StockHolding) (decimal.Decimal, error)
}

var (
	walkStep  = decimal.NewFromInt(5)
	walkFloor = decimal.NewFromInt(1)
)

// RandomWalk is a simulated feed: each quote moves the current price by a
// uniform step in [-5, +5), never below 1.
type RandomWalk struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomWalk(seed uint64) *RandomWalk {
	return &RandomWalk{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (w *RandomWalk) Quote(ctx context.Context, holding model.StockHolding) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	w.mu.Lock()
	f := w.rng.Float64()
	w.mu.Unlock()

	change := decimal.NewFromFloat(f - 0.5).Mul(walkStep.Mul(decimal.NewFromInt(2)))
	price := holding.CurrentPrice.Add(change).Round(2)
	if price.LessThan(walkFloor) {
		price = walkFloor
	}
	return price, nil
}
