package examples

import (
	"backtest-engine/bar"
	"backtest-engine/strategy"
)

// ChannelBreakout enters long on a close above the highest close of the
// preceding Lookback bars and enters short on a close below the lowest close
// of the same window — a minimal price-action strategy exercising both entry
// directions without relying on any indicator math (moving averages and
// similar stay out of scope; this reads raw history directly). On the
// opposite signal it submits only the opposite entry order; entry orders
// fill only from a flat position, so an open position is not closed or
// reversed by it, and position records the last signal, not the fill.
type ChannelBreakout struct {
	strategy.NoopStrategy
	strategy.Trader

	Lookback int
	Quantity int64

	position map[string]int64
}

// NewChannelBreakout returns a ChannelBreakout trading quantity shares per
// signal over a lookback-bar channel, wired to submit orders through broker.
func NewChannelBreakout(broker strategy.OrderSubmitter, lookback int, quantity int64) *ChannelBreakout {
	return &ChannelBreakout{
		Trader:   strategy.Trader{Broker: broker},
		Lookback: lookback,
		Quantity: quantity,
		position: make(map[string]int64),
	}
}

func (s *ChannelBreakout) OnBarClose(history *bar.History, b bar.Bar) {
	// history.Close.At(0) is the bar just closed (b itself): the channel
	// must be built from the Lookback closes before it, or a new high
	// would always be mid-channel and never break out.
	if history.Close.Len() <= s.Lookback {
		return
	}

	highest, lowest := history.Close.At(1), history.Close.At(1)
	for i := 2; i <= s.Lookback; i++ {
		c := history.Close.At(i)
		if c > highest {
			highest = c
		}
		if c < lowest {
			lowest = c
		}
	}

	pos := s.position[b.Symbol]

	switch {
	case b.Close > highest && pos <= 0:
		s.EnterLong(b.Symbol, s.Quantity)
		s.position[b.Symbol] = s.Quantity
	case b.Close < lowest && pos >= 0:
		s.EnterShort(b.Symbol, s.Quantity)
		s.position[b.Symbol] = -s.Quantity
	}
}
