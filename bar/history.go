package bar

import "time"

// History is an append-only log of bars for one (symbol, timespan),
// exposing a reverse-indexed accessor for each field. It is appended to at
// bar-close (spec §6: "on_bar_open sees the history up to but not
// including the current bar"). Grounded on original_source's BarHistory.
type History struct {
	Timestamp RVector[time.Time]
	Open      RVector[float64]
	High      RVector[float64]
	Low       RVector[float64]
	Close     RVector[float64]
	Volume    RVector[int64]
	Interest  RVector[int64]
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Append records bar as the new most-recent entry.
func (h *History) Append(b Bar) {
	h.Timestamp.Push(b.Timestamp)
	h.Open.Push(b.Open)
	h.High.Push(b.High)
	h.Low.Push(b.Low)
	h.Close.Push(b.Close)
	h.Volume.Push(b.Volume)
	h.Interest.Push(b.Interest)
}

// Len returns the number of bars recorded so far.
func (h *History) Len() int {
	return h.Timestamp.Len()
}
