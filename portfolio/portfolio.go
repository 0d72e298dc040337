package portfolio

import (
	"fmt"
	"time"

	"backtest-engine/instrument"
	"backtest-engine/internal/invariant"
)

// Portfolio owns one Ledger per traded symbol and is the accounting system
// a ReplayBroker posts executions into, ported from original_source's
// Portfolio class.
type Portfolio struct {
	Name    string
	ledgers map[string]*Ledger
}

// New returns an empty portfolio. An empty name defaults to "default",
// matching original_source's Portfolio().
func New(name string) *Portfolio {
	if name == "" {
		name = "default"
	}
	return &Portfolio{Name: name, ledgers: make(map[string]*Ledger)}
}

// AddInstrument registers symbol with an empty ledger. Calling this twice
// for the same symbol is a programming error.
func (p *Portfolio) AddInstrument(inst instrument.Instrument) {
	invariant.Require(p.ledgers[inst.Symbol] == nil, "portfolio: %s already registered", inst.Symbol)
	p.ledgers[inst.Symbol] = NewLedger(inst.Symbol)
}

// Ledger returns the ledger for symbol, creating one on first use so a
// broker can post fills without a separate registration step for every
// symbol a CSV feed happens to contain.
func (p *Portfolio) Ledger(symbol string) *Ledger {
	l, ok := p.ledgers[symbol]
	if !ok {
		l = NewLedger(symbol)
		p.ledgers[symbol] = l
	}
	return l
}

// AppendTransaction posts a fill to inst's ledger.
func (p *Portfolio) AppendTransaction(inst instrument.Instrument, t time.Time, quantity int64, price, fees float64) {
	p.Ledger(inst.Symbol).Append(inst, t, quantity, price, fees)
}

// PositionPnL returns the realized and unrealized PnL for inst's current
// open position at price. Panics if inst has no open position.
func (p *Portfolio) PositionPnL(inst instrument.Instrument, price float64) (realized, unrealized float64) {
	return p.Ledger(inst.Symbol).PositionPnL(inst, price)
}

// PnL recomputes the mark-to-market PnL series for inst against prices.
func (p *Portfolio) PnL(inst instrument.Instrument, prices PnLSeries) PnLSeries {
	return p.Ledger(inst.Symbol).PnL(inst, prices)
}

// TradeStats returns the per-trade statistics for inst.
func (p *Portfolio) TradeStats(inst instrument.Instrument) []TradeStats {
	return p.Ledger(inst.Symbol).TradeStats(inst)
}

func (l *Ledger) lastOr(zero Transaction) Transaction {
	if len(l.transactions) == 0 {
		return zero
	}
	return l.Back()
}

// Quantity returns the most recent transaction's signed fill quantity.
func (p *Portfolio) Quantity(symbol string) int64 { return p.Ledger(symbol).lastOr(Transaction{}).Quantity }

// PositionQuantity returns the current signed open position.
func (p *Portfolio) PositionQuantity(symbol string) int64 {
	return p.Ledger(symbol).lastOr(Transaction{}).PositionQuantity
}

// GrossPnl returns the most recent transaction's realized gross PnL.
func (p *Portfolio) GrossPnl(symbol string) float64 { return p.Ledger(symbol).lastOr(Transaction{}).GrossPnl }

// NetPnl returns the most recent transaction's realized net PnL (gross plus fees).
func (p *Portfolio) NetPnl(symbol string) float64 { return p.Ledger(symbol).lastOr(Transaction{}).NetPnl }

func (p *Portfolio) String() string {
	return fmt.Sprintf("portfolio %q (%d symbols)", p.Name, len(p.ledgers))
}
