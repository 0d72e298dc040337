package portfolio

import (
	"testing"
	"time"

	"backtest-engine/instrument"
)

func TestLedgerAppendOpenAndCloseRealizesGrossPnl(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")

	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0)

	t2 := t1.Add(time.Hour)
	l.Append(inst, t2, -10, 110, 0)

	if l.Len() != 3 { // sentinel + open + close
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	closeTx := l.Back()
	if closeTx.PositionQuantity != 0 {
		t.Errorf("PositionQuantity after full close = %d, want 0", closeTx.PositionQuantity)
	}
	if closeTx.GrossPnl != 100 {
		t.Errorf("GrossPnl = %v, want 100 (10 * (110-100))", closeTx.GrossPnl)
	}
	if closeTx.NetPnl != closeTx.GrossPnl {
		t.Errorf("NetPnl = %v, want equal to GrossPnl with zero fees", closeTx.NetPnl)
	}
}

func TestLedgerAppendSplitsOnReversal(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")

	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0) // open long 10

	t2 := t1.Add(time.Hour)
	l.Append(inst, t2, -15, 110, 0) // sell 15: closes the long and opens a short 5

	// sentinel, open-long, close-the-long (split leg), open-short (split leg)
	if l.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (reversal splits into two postings)", l.Len())
	}

	closeLeg := l.transactions[2]
	if closeLeg.PositionQuantity != 0 {
		t.Errorf("split close leg PositionQuantity = %d, want 0", closeLeg.PositionQuantity)
	}
	if closeLeg.GrossPnl != 100 {
		t.Errorf("split close leg GrossPnl = %v, want 100", closeLeg.GrossPnl)
	}

	openLeg := l.Back()
	if openLeg.PositionQuantity != -5 {
		t.Errorf("split open leg PositionQuantity = %d, want -5", openLeg.PositionQuantity)
	}
	if openLeg.PositionAverageCost != 110 {
		t.Errorf("split open leg PositionAverageCost = %v, want 110", openLeg.PositionAverageCost)
	}
	if openLeg.GrossPnl != 0 {
		t.Errorf("split open leg should realize no PnL of its own: got %v", openLeg.GrossPnl)
	}
	if !openLeg.Timestamp.After(closeLeg.Timestamp) {
		t.Error("split open leg should be stamped a microsecond after the close leg")
	}
}

func TestLedgerAppendRejectsNonChronologicalPostings(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic posting an out-of-order transaction")
		}
	}()
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")
	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0)
	l.Append(inst, t1.Add(-time.Hour), -10, 110, 0)
}

func TestLedgerPositionPnLUnrealizedOnOpenPosition(t *testing.T) {
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")
	t1 := time.Date(2024, 1, 1, 9, 0, 1, 0, time.UTC)
	l.Append(inst, t1, 10, 100, 0)

	realized, unrealized := l.PositionPnL(inst, 105)
	if realized != 0 {
		t.Errorf("realized = %v, want 0 (nothing closed yet)", realized)
	}
	if unrealized != 50 {
		t.Errorf("unrealized = %v, want 50 (10 * (105-100))", unrealized)
	}
}

func TestLedgerPositionPnLPanicsWithoutOpenPosition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic calling PositionPnL on a flat ledger")
		}
	}()
	inst := instrument.NewFuture("ES", 0.25, 1, "E-mini S&P 500")
	l := NewLedger("ES")
	l.PositionPnL(inst, 100)
}
