// Package examples holds small reference strategies exercising the Trader
// convenience methods end to end, the way the teacher's libs/strategies
// ships a handful of concrete strategies alongside the interface they
// implement.
package examples

import (
	"backtest-engine/bar"
	"backtest-engine/strategy"
)

// BuyAndHold enters a long position of Quantity shares the first time it
// sees a bar for a symbol and never exits — the simplest possible
// strategy, useful as a smoke test for the broker and portfolio wiring.
type BuyAndHold struct {
	strategy.NoopStrategy
	strategy.Trader

	Quantity int64

	entered map[string]bool
}

// NewBuyAndHold returns a BuyAndHold strategy trading quantity shares per
// symbol, wired to submit orders through broker.
func NewBuyAndHold(broker strategy.OrderSubmitter, quantity int64) *BuyAndHold {
	return &BuyAndHold{
		Trader:   strategy.Trader{Broker: broker},
		Quantity: quantity,
		entered:  make(map[string]bool),
	}
}

func (s *BuyAndHold) OnBarClose(history *bar.History, b bar.Bar) {
	if s.entered[b.Symbol] {
		return
	}
	s.entered[b.Symbol] = true
	s.EnterLong(b.Symbol, s.Quantity)
}
