package strategy

import (
	"backtest-engine/bar"
	"backtest-engine/order"
)

// Adapter implements broker.BarObserver and broker.OrderNotificationObserver
// (structurally — it intentionally doesn't import the broker package, to
// keep strategy authors from depending on broker internals), maintaining a
// per-symbol bar.History and dispatching to a wrapped Strategy.
//
// original_source's barOpenHandler looks up the history without creating
// it, relying on barCloseHandler having already appended the bar before
// this instrument is seen again; that leaves the very first bar a symbol
// ever sees with no history at OnBarOpen. Adapter instead creates the
// history on first use in any of the three callbacks, so OnBarOpen always
// receives a valid (possibly empty) history — a deliberate improvement
// over the source's implicit ordering assumption.
type Adapter struct {
	Strategy Strategy

	histories map[string]*bar.History
}

// NewAdapter wraps s.
func NewAdapter(s Strategy) *Adapter {
	return &Adapter{Strategy: s, histories: make(map[string]*bar.History)}
}

func (a *Adapter) historyFor(symbol string) *bar.History {
	h, ok := a.histories[symbol]
	if !ok {
		h = bar.NewHistory()
		a.histories[symbol] = h
	}
	return h
}

func (a *Adapter) OnBarOpen(b bar.Bar) {
	a.Strategy.OnBarOpen(a.historyFor(b.Symbol), b)
}

func (a *Adapter) OnBarClose(b bar.Bar) {
	h := a.historyFor(b.Symbol)
	h.Append(b)
	a.Strategy.OnBarClose(h, b)
}

func (a *Adapter) OnBarClosed(b bar.Bar) {
	a.Strategy.OnBarClosed(a.historyFor(b.Symbol), b)
}

func (a *Adapter) OnOrderNotification(n order.Notification) {
	a.Strategy.OnOrderNotification(n)
}
