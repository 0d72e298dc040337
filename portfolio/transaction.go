// Package portfolio implements the weighted-average-cost transaction ledger
// that turns order fills into realized/unrealized PnL and trade statistics,
// ported from original_source's Portfolio.cpp.
package portfolio

import (
	"fmt"
	"time"

	"backtest-engine/instrument"
	"backtest-engine/internal/invariant"
)

// Transaction is one posting to a symbol's ledger: either a real fill or,
// for the very first entry, an all-zero sentinel that anchors the running
// position at zero before any trade happens.
type Transaction struct {
	Timestamp           time.Time
	Quantity            int64
	Price               float64
	Value               float64
	AverageCost         float64
	PositionQuantity    int64
	PositionAverageCost float64
	GrossPnl            float64
	NetPnl              float64
	Fees                float64
}

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Ledger is the append-only transaction history for a single symbol. The
// zero value is ready to use; the first Append seeds a zero-quantity
// sentinel transaction one microsecond before the first real one, matching
// original_source's TransactionCollection::append.
type Ledger struct {
	Symbol       string
	transactions []Transaction
}

// NewLedger returns a ledger for symbol.
func NewLedger(symbol string) *Ledger {
	return &Ledger{Symbol: symbol}
}

// Len returns the number of postings, including the leading sentinel once
// one has been created.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns the full posting history. The slice is owned by the
// ledger; callers must not mutate it.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// Back returns the most recent posting. Panics if the ledger is empty.
func (l *Ledger) Back() Transaction { return l.transactions[len(l.transactions)-1] }

// Append posts a fill of quantity at price (with fees, always a cost and
// thus typically negative) at timestamp t, against inst's big-point value.
//
// When the fill would flip the position's sign — long to short or vice
// versa — through exactly zero in a single step, Append splits it into two
// postings: one that closes the existing position (fees pro-rated by
// size), and a second one microsecond later that opens the new position
// with the remainder. This mirrors original_source's recursive split so a
// single instantaneous reversal still produces a clean realized-PnL
// boundary instead of carrying a blended cost basis across the flip.
func (l *Ledger) Append(inst instrument.Instrument, t time.Time, quantity int64, price, fees float64) {
	if len(l.transactions) == 0 {
		l.transactions = append(l.transactions, Transaction{Timestamp: t.Add(-time.Microsecond)})
	}

	last := l.transactions[len(l.transactions)-1]
	invariant.Assert(t.After(last.Timestamp), "portfolio: %s: transactions must be appended in chronological order (%v <= %v)", inst.Symbol, t, last.Timestamp)

	ppq := last.PositionQuantity

	tx := Transaction{Timestamp: t, Quantity: quantity, Price: price, Fees: fees}

	if ppq != 0 && ppq != -tx.Quantity && sign(ppq+tx.Quantity) != sign(ppq) {
		perUnitFee := tx.Fees / float64(abs64(tx.Quantity))
		l.Append(inst, tx.Timestamp, -ppq, tx.Price, perUnitFee*float64(abs64(ppq)))

		tx.Timestamp = tx.Timestamp.Add(time.Microsecond)
		tx.Quantity += ppq
		ppq = 0
		tx.Fees = perUnitFee * float64(abs64(tx.Quantity))

		last = l.transactions[len(l.transactions)-1]
	}

	tx.Value = float64(tx.Quantity) * tx.Price * inst.BPV
	tx.AverageCost = tx.Value / (float64(tx.Quantity) * inst.BPV)
	tx.PositionQuantity = ppq + tx.Quantity

	ppac := last.PositionAverageCost

	switch {
	case tx.PositionQuantity == 0:
		tx.PositionAverageCost = 0
	case abs64(ppq) > abs64(tx.PositionQuantity):
		tx.PositionAverageCost = ppac
	default:
		tx.PositionAverageCost = (float64(ppq)*ppac*inst.BPV + tx.Value) / (float64(tx.PositionQuantity) * inst.BPV)
	}

	if abs64(ppq) < abs64(tx.PositionQuantity) || ppq == 0 {
		tx.GrossPnl = 0
	} else {
		tx.GrossPnl = float64(tx.Quantity) * inst.BPV * (ppac - tx.AverageCost)
	}
	tx.NetPnl = tx.GrossPnl + tx.Fees

	l.transactions = append(l.transactions, tx)
}

// PositionPnL returns the realized PnL accumulated over the current trade
// plus the unrealized PnL of the open position at price. Panics if there is
// no open position — callers must check PositionQuantity first.
func (l *Ledger) PositionPnL(inst instrument.Instrument, price float64) (realized, unrealized float64) {
	n := len(l.transactions)
	invariant.Assert(n > 0 && l.transactions[n-1].PositionQuantity != 0, "portfolio: %s: PositionPnL called without an open position", inst.Symbol)

	last := l.transactions[n-1]
	unrealized = inst.BPV * float64(last.PositionQuantity) * (price - last.PositionAverageCost)

	for i := n - 1; i >= 0 && l.transactions[i].PositionQuantity != 0; i-- {
		realized += l.transactions[i].GrossPnl
	}
	return realized, unrealized
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s : %v : %v : %v : %d : %v : %v : %v : %v",
		t.Timestamp.Format("20060102"), t.Price, t.Value, t.AverageCost,
		t.PositionQuantity, t.PositionAverageCost, t.GrossPnl, t.NetPnl, t.Fees)
}
