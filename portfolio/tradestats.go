package portfolio

import (
	"time"

	"backtest-engine/instrument"
)

// TradeStats summarizes one maximal run of non-zero position — a "trade" —
// from the transaction that opened it to the transaction that closed it
// back to flat, ported from original_source's TradeStats /
// TransactionCollection::getTradeStats.
type TradeStats struct {
	Symbol string

	Start time.Time
	End   time.Time

	InitialPosition int64
	MaxPosition     int64
	NumTransactions int

	MaxNotionalCost float64

	PnL     float64
	PctPnL  float64
	TickPnL float64
	Fees    float64
}

// TradeStats walks the ledger and returns one TradeStats per maximal run
// between flat points (PositionQuantity == 0). A ledger with no completed
// or open trades returns an empty slice.
func (l *Ledger) TradeStats(inst instrument.Instrument) []TradeStats {
	var out []TradeStats

	n := len(l.transactions)
	begin := 0
	for begin < n && l.transactions[begin].PositionQuantity == 0 {
		begin++
	}
	if begin == n {
		return out
	}

	for {
		end := begin + 1
		for end < n && l.transactions[end].PositionQuantity != 0 {
			end++
		}
		if end < n {
			end++ // include the closing (flat) transaction
		}

		out = append(out, summarizeTrade(l.Symbol, inst, l.transactions[begin:end]))

		if end >= n {
			break
		}
		// Next trade starts exactly where this one's closing run ended —
		// unlike the very first search, no further skip of zero-quantity
		// entries here (original_source's getTradeStats only does that
		// skip once, before the loop).
		begin = end
	}

	return out
}

func summarizeTrade(symbol string, inst instrument.Instrument, run []Transaction) TradeStats {
	last := run[len(run)-1]

	ts := TradeStats{
		Symbol:          symbol,
		Start:           run[0].Timestamp,
		End:             last.Timestamp,
		InitialPosition: run[0].Quantity,
	}

	positionCostBasis := 0.0
	for _, tx := range run {
		if tx.Value != 0 {
			ts.NumTransactions++
		}
		positionCostBasis += tx.Value
		ts.Fees += tx.Fees

		if abs64(tx.PositionQuantity) > abs64(ts.MaxPosition) {
			ts.MaxPosition = tx.PositionQuantity
			ts.MaxNotionalCost = positionCostBasis
		}
	}

	positionValue := float64(last.PositionQuantity) * inst.BPV * last.Price
	ts.PnL = positionValue - positionCostBasis
	if ts.MaxNotionalCost != 0 {
		ts.PctPnL = ts.PnL / absFloat(ts.MaxNotionalCost)
	}
	// PnL expressed in ticks rather than currency — the field is declared
	// but never populated in original_source's getTradeStats; this expansion
	// actually computes it per spec §3's TradeStats field list.
	if inst.Tick > 0 && inst.BPV > 0 {
		ts.TickPnL = ts.PnL / (inst.Tick * inst.BPV)
	}

	return ts
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
