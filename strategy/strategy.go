// Package strategy defines the callback interface a trading strategy
// implements and the Trader embeddable that turns it into order submissions
// on a broker, ported from original_source's Strategy class.
package strategy

import (
	"backtest-engine/bar"
	"backtest-engine/order"
)

// Strategy reacts to the broker's bar lifecycle and fill notifications.
// Every method is optional to implement meaningfully — embedding
// NoopStrategy satisfies the interface with do-nothing bodies so a
// strategy only needs to override what it cares about.
type Strategy interface {
	OnBarOpen(history *bar.History, b bar.Bar)
	OnBarClose(history *bar.History, b bar.Bar)
	OnBarClosed(history *bar.History, b bar.Bar)
	OnOrderNotification(n order.Notification)
}

// NoopStrategy implements Strategy with empty bodies, to embed in
// strategies that only care about a subset of the callbacks.
type NoopStrategy struct{}

func (NoopStrategy) OnBarOpen(*bar.History, bar.Bar)        {}
func (NoopStrategy) OnBarClose(*bar.History, bar.Bar)       {}
func (NoopStrategy) OnBarClosed(*bar.History, bar.Bar)      {}
func (NoopStrategy) OnOrderNotification(order.Notification) {}

// OrderSubmitter is the subset of broker.ReplayBroker a Trader needs: queue
// an order for admission into the replay schedule. Kept as a narrow
// interface so strategy code doesn't import the broker package directly.
type OrderSubmitter interface {
	SubmitOrder(o order.Order)
}

// Trader is an embeddable helper providing the twelve order-placement
// convenience methods original_source's Strategy exposes to subclasses. A
// concrete strategy embeds Trader and calls Broker.SubmitOrder indirectly
// through these methods instead of constructing order.Order values itself.
type Trader struct {
	Broker OrderSubmitter
}

func (t *Trader) EnterLong(symbol string, quantity int64) {
	t.Broker.SubmitOrder(order.EnterLongOrder(symbol, quantity))
}
func (t *Trader) EnterLongLimit(symbol string, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterLongLimitOrder(symbol, quantity, limitPrice))
}
func (t *Trader) EnterLongStop(symbol string, stopPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterLongStopOrder(symbol, quantity, stopPrice))
}
func (t *Trader) EnterLongStopLimit(symbol string, stopPrice, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterLongStopLimitOrder(symbol, quantity, stopPrice, limitPrice))
}

// EnterLongStopLimitExpiring is EnterLongStopLimit with an explicit
// expiration window, matching original_source's overload taking
// barsValidFor.
func (t *Trader) EnterLongStopLimitExpiring(symbol string, stopPrice, limitPrice float64, quantity int64, barsValidFor int) {
	o := order.EnterLongStopLimitOrder(symbol, quantity, stopPrice, limitPrice)
	o.SetExpiration(barsValidFor)
	t.Broker.SubmitOrder(o)
}

func (t *Trader) ExitLong(symbol string, quantity int64) {
	t.Broker.SubmitOrder(order.ExitLongOrder(symbol, quantity))
}
func (t *Trader) ExitLongLimit(symbol string, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitLongLimitOrder(symbol, quantity, limitPrice))
}
func (t *Trader) ExitLongStop(symbol string, stopPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitLongStopOrder(symbol, quantity, stopPrice))
}
func (t *Trader) ExitLongStopLimit(symbol string, stopPrice, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitLongStopLimitOrder(symbol, quantity, stopPrice, limitPrice))
}

func (t *Trader) EnterShort(symbol string, quantity int64) {
	t.Broker.SubmitOrder(order.EnterShortOrder(symbol, quantity))
}
func (t *Trader) EnterShortLimit(symbol string, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterShortLimitOrder(symbol, quantity, limitPrice))
}
func (t *Trader) EnterShortStop(symbol string, stopPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterShortStopOrder(symbol, quantity, stopPrice))
}
func (t *Trader) EnterShortStopLimit(symbol string, stopPrice, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.EnterShortStopLimitOrder(symbol, quantity, stopPrice, limitPrice))
}

// EnterShortStopLimitExpiring is EnterShortStopLimit with an explicit
// expiration window.
func (t *Trader) EnterShortStopLimitExpiring(symbol string, stopPrice, limitPrice float64, quantity int64, barsValidFor int) {
	o := order.EnterShortStopLimitOrder(symbol, quantity, stopPrice, limitPrice)
	o.SetExpiration(barsValidFor)
	t.Broker.SubmitOrder(o)
}

func (t *Trader) ExitShort(symbol string, quantity int64) {
	t.Broker.SubmitOrder(order.ExitShortOrder(symbol, quantity))
}
func (t *Trader) ExitShortLimit(symbol string, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitShortLimitOrder(symbol, quantity, limitPrice))
}
func (t *Trader) ExitShortStop(symbol string, stopPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitShortStopOrder(symbol, quantity, stopPrice))
}
func (t *Trader) ExitShortStopLimit(symbol string, stopPrice, limitPrice float64, quantity int64) {
	t.Broker.SubmitOrder(order.ExitShortStopLimitOrder(symbol, quantity, stopPrice, limitPrice))
}
