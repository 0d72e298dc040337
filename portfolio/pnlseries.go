package portfolio

import (
	"time"

	"backtest-engine/instrument"
)

// PnLSeries is a time-indexed numeric series, ported from original_source's
// NumericIndexer — used both as the input price series to PnL and as the
// resulting per-bar PnL series fed into trade summaries.
type PnLSeries struct {
	Timestamps []time.Time
	Values     []float64
}

func (s *PnLSeries) push(t time.Time, v float64) {
	s.Timestamps = append(s.Timestamps, t)
	s.Values = append(s.Values, v)
}

// Append adds one (timestamp, value) point, for callers building a price
// series to feed into PnL (e.g. a bar feed's closing prices).
func (s *PnLSeries) Append(t time.Time, v float64) { s.push(t, v) }

// Len returns the number of points in the series.
func (s *PnLSeries) Len() int { return len(s.Timestamps) }

// PnL recomputes, bar by bar, the mark-to-market PnL implied by prices
// against this symbol's transaction history, ported from
// original_source's TransactionCollection::getPnl. Each point is the
// change in position value since the previous point, net of any
// transaction value realized at that timestamp.
func (l *Ledger) PnL(inst instrument.Instrument, prices PnLSeries) PnLSeries {
	var out PnLSeries

	if len(l.transactions) <= 1 {
		for _, t := range prices.Timestamps {
			out.push(t, 0)
		}
		return out
	}

	currentTx := 1
	ii := 0
	for ii < prices.Len() && prices.Timestamps[ii].Before(l.transactions[currentTx].Timestamp) {
		ii++
	}
	for i := 0; i < ii; i++ {
		out.push(prices.Timestamps[i], 0)
	}
	if ii == prices.Len() {
		return out
	}

	previousPositionValue := 0.0
	bpv := inst.BPV

	for ii < prices.Len() && currentTx < len(l.transactions) {
		switch {
		case prices.Timestamps[ii].Equal(l.transactions[currentTx].Timestamp):
			txValue := l.transactions[currentTx].Value
			positionValue := float64(l.transactions[currentTx].PositionQuantity) * bpv * prices.Values[ii]
			out.push(prices.Timestamps[ii], positionValue-previousPositionValue-txValue)
			ii++
			currentTx++
			previousPositionValue = positionValue

		case prices.Timestamps[ii].Before(l.transactions[currentTx].Timestamp):
			positionValue := float64(l.transactions[currentTx-1].PositionQuantity) * bpv * prices.Values[ii]
			out.push(prices.Timestamps[ii], positionValue-previousPositionValue)
			ii++
			previousPositionValue = positionValue

		default:
			if ii > 0 {
				positionValue := float64(l.transactions[currentTx].PositionQuantity) * bpv * prices.Values[ii-1]
				out.push(l.transactions[currentTx].Timestamp, positionValue-previousPositionValue-l.transactions[currentTx].Value)
				previousPositionValue = positionValue
			} else {
				out.push(l.transactions[currentTx].Timestamp, 0)
			}
			currentTx++
		}
	}

	for ii < prices.Len() {
		positionValue := float64(l.transactions[currentTx-1].PositionQuantity) * bpv * prices.Values[ii]
		out.push(prices.Timestamps[ii], positionValue-previousPositionValue)
		ii++
		previousPositionValue = positionValue
	}

	return out
}
