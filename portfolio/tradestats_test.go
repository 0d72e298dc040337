package portfolio

import (
	"testing"
	"time"

	"backtest-engine/instrument"
	"backtest-engine/internal/testsupport"
)

func TestTradeStatsSingleRoundTrip(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")

	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0)
	t2 := t1.Add(time.Hour)
	l.Append(inst, t2, -10, 110, 0)

	stats := l.TradeStats(inst)
	if len(stats) != 1 {
		t.Fatalf("TradeStats() returned %d entries, want 1", len(stats))
	}

	ts := stats[0]
	if ts.InitialPosition != 10 {
		t.Errorf("InitialPosition = %d, want 10", ts.InitialPosition)
	}
	if ts.MaxPosition != 10 {
		t.Errorf("MaxPosition = %d, want 10", ts.MaxPosition)
	}
	if ts.NumTransactions != 2 {
		t.Errorf("NumTransactions = %d, want 2", ts.NumTransactions)
	}
	if ts.MaxNotionalCost != 1000 {
		t.Errorf("MaxNotionalCost = %v, want 1000", ts.MaxNotionalCost)
	}
	if ts.PnL != 100 {
		t.Errorf("PnL = %v, want 100", ts.PnL)
	}
	if ts.PctPnL != 0.1 {
		t.Errorf("PctPnL = %v, want 0.1", ts.PctPnL)
	}
	if !ts.Start.Equal(t1) || !ts.End.Equal(t2) {
		t.Errorf("Start/End = %v/%v, want %v/%v", ts.Start, ts.End, t1, t2)
	}

	testsupport.Golden(t, "trade_stats_single_round_trip", ts)
}

func TestTradeStatsNoTradesReturnsEmpty(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")
	if got := l.TradeStats(inst); len(got) != 0 {
		t.Errorf("TradeStats() on an empty ledger = %v, want empty", got)
	}
}

func TestTradeStatsMultipleRoundTripsProduceSeparateEntries(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")

	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0)
	l.Append(inst, t1.Add(time.Hour), -10, 110, 0) // trade 1 closes flat

	t3 := t1.Add(2 * time.Hour)
	l.Append(inst, t3, -5, 108, 0)
	l.Append(inst, t3.Add(time.Hour), 5, 104, 0) // trade 2: short then cover

	stats := l.TradeStats(inst)
	if len(stats) != 2 {
		t.Fatalf("TradeStats() returned %d entries, want 2", len(stats))
	}
	if stats[0].InitialPosition <= 0 {
		t.Errorf("first trade InitialPosition = %d, want > 0 (long)", stats[0].InitialPosition)
	}
	if stats[1].InitialPosition >= 0 {
		t.Errorf("second trade InitialPosition = %d, want < 0 (short)", stats[1].InitialPosition)
	}
}
