package examples

import (
	"testing"

	"backtest-engine/bar"
	"backtest-engine/order"
)

// feedCloses simulates what strategy.Adapter does: append each bar to h
// before invoking the strategy's OnBarClose.
func feedCloses(s *ChannelBreakout, h *bar.History, symbol string, closes []float64) {
	for _, c := range closes {
		b := bar.Bar{Symbol: symbol, Close: c}
		h.Append(b)
		s.OnBarClose(h, b)
	}
}

func TestChannelBreakoutEntersLongOnNewHigh(t *testing.T) {
	sub := &recordingSubmitter{}
	s := NewChannelBreakout(sub, 3, 10)
	h := bar.NewHistory()

	// Three bars build the channel (high=102, low=98); the fourth breaks
	// above it.
	feedCloses(s, h, "ES", []float64{100, 102, 98, 105})

	if len(sub.orders) != 1 {
		t.Fatalf("orders submitted = %d, want 1", len(sub.orders))
	}
	if sub.orders[0].Type != order.EnterLong || sub.orders[0].Quantity != 10 {
		t.Errorf("unexpected order: %+v", sub.orders[0])
	}
}

func TestChannelBreakoutEntersShortOnNewLow(t *testing.T) {
	sub := &recordingSubmitter{}
	s := NewChannelBreakout(sub, 3, 10)
	h := bar.NewHistory()

	feedCloses(s, h, "ES", []float64{100, 102, 98, 90})

	if len(sub.orders) != 1 {
		t.Fatalf("orders submitted = %d, want 1", len(sub.orders))
	}
	if sub.orders[0].Type != order.EnterShort {
		t.Errorf("Type = %v, want EnterShort", sub.orders[0].Type)
	}
}

func TestChannelBreakoutStaysFlatInsideChannel(t *testing.T) {
	sub := &recordingSubmitter{}
	s := NewChannelBreakout(sub, 3, 10)
	h := bar.NewHistory()

	feedCloses(s, h, "ES", []float64{100, 102, 98, 101})

	if len(sub.orders) != 0 {
		t.Errorf("orders submitted = %d, want 0 (101 stays within the 98-102 channel)", len(sub.orders))
	}
}

func TestChannelBreakoutWaitsForFullLookbackWindow(t *testing.T) {
	sub := &recordingSubmitter{}
	s := NewChannelBreakout(sub, 3, 10)
	h := bar.NewHistory()

	// Only 3 bars total (== Lookback, not > Lookback) means there is no
	// prior window yet to break out of.
	feedCloses(s, h, "ES", []float64{100, 102, 200})

	if len(sub.orders) != 0 {
		t.Errorf("orders submitted = %d, want 0 before the lookback window is full", len(sub.orders))
	}
}

func TestChannelBreakoutReversesOnOppositeSignal(t *testing.T) {
	sub := &recordingSubmitter{}
	s := NewChannelBreakout(sub, 3, 10)
	h := bar.NewHistory()

	feedCloses(s, h, "ES", []float64{100, 102, 98, 105}) // breaks out long
	feedCloses(s, h, "ES", []float64{104, 103, 102, 80})  // then breaks down

	if len(sub.orders) != 2 {
		t.Fatalf("orders submitted = %d, want 2 (long entry, then short reversal)", len(sub.orders))
	}
	if sub.orders[0].Type != order.EnterLong {
		t.Errorf("first order = %v, want EnterLong", sub.orders[0].Type)
	}
	if sub.orders[1].Type != order.EnterShort {
		t.Errorf("second order = %v, want EnterShort", sub.orders[1].Type)
	}
}
