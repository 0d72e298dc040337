// Package instrument models tradable instruments and the per-provider price
// variations used to re-express a foreign provider's prices in another
// provider's terms (e.g. a futures contract quoted with a different tick
// size and multiplier by two data vendors).
package instrument

import "backtest-engine/internal/invariant"

// Kind distinguishes how an instrument's price translates into currency.
type Kind int

const (
	Stock Kind = iota
	Future
)

func (k Kind) String() string {
	switch k {
	case Stock:
		return "stock"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// Instrument is an immutable catalog entry: its tick size and big-point
// value (contract multiplier) govern rounding and PnL arithmetic
// throughout the order and portfolio packages.
type Instrument struct {
	Kind   Kind
	Symbol string
	Tick   float64
	BPV    float64
	Name   string
}

// NewStock builds a Stock instrument with the conventional 1-cent tick and
// unit multiplier.
func NewStock(symbol, name string) Instrument {
	return Instrument{Kind: Stock, Symbol: symbol, Tick: 0.01, BPV: 1, Name: name}
}

// NewFuture builds a Future instrument with an explicit tick size and
// big-point value. Both must be positive.
func NewFuture(symbol string, tick, bpv float64, name string) Instrument {
	invariant.Require(tick > 0, "instrument %s: tick must be > 0, got %v", symbol, tick)
	invariant.Require(bpv > 0, "instrument %s: bpv must be > 0, got %v", symbol, bpv)
	return Instrument{Kind: Future, Symbol: symbol, Tick: tick, BPV: bpv, Name: name}
}

func (i Instrument) IsStock() bool  { return i.Kind == Stock }
func (i Instrument) IsFuture() bool { return i.Kind == Future }
