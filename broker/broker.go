// Package broker drives the per-bar replay schedule: it turns each bar off
// a Feed into the sixteen-step synthetic-tick sequence that admits new
// orders, matches them against open/high/low/close ticks, notifies
// observers, and finally expires or prunes orders — ported from
// original_source's HistoricalReplay.
package broker

import (
	"context"
	"time"

	"backtest-engine/bar"
	"backtest-engine/instrument"
	"backtest-engine/internal/invariant"
	"backtest-engine/order"
	"backtest-engine/portfolio"
	"backtest-engine/telemetry"
)

// InstrumentPosition is the current signed position for a symbol plus the
// timestamp it was last changed at.
type InstrumentPosition struct {
	Position int64
	Since    time.Time
}

// BarObserver is notified at each of the three bar-lifecycle points a
// strategy can react to.
type BarObserver interface {
	OnBarOpen(b bar.Bar)
	OnBarClose(b bar.Bar)
	OnBarClosed(b bar.Bar)
}

// OrderNotificationObserver is notified once per fill, after the tick that
// produced it has finished matching every order.
type OrderNotificationObserver interface {
	OnOrderNotification(n order.Notification)
}

type instrumentControlBlock struct {
	instrument    instrument.Instrument
	position      InstrumentPosition
	orders        []order.Order
	newOrders     []order.Order
	executions    []order.Execution
	notifications []order.Notification
}

// ReplayBroker is the Broker implementation driving a historical replay: it
// owns one Portfolio, subscribes to a bar.Feed, and steps every subscribed
// symbol's orders through the sixteen-step intra-bar schedule as bars
// arrive.
type ReplayBroker struct {
	Feed      bar.Feed
	Catalog   *instrument.Catalog
	Portfolio *portfolio.Portfolio

	barObservers   []BarObserver
	orderObservers []OrderNotificationObserver

	icbs map[string]*instrumentControlBlock
}

// New returns a ReplayBroker fed by feed and backed by catalog for
// instrument lookups. A Portfolio named "default" is created if p is nil.
func New(feed bar.Feed, catalog *instrument.Catalog, p *portfolio.Portfolio) *ReplayBroker {
	if p == nil {
		p = portfolio.New("default")
	}
	return &ReplayBroker{
		Feed:      feed,
		Catalog:   catalog,
		Portfolio: p,
		icbs:      make(map[string]*instrumentControlBlock),
	}
}

// AddBarObserver registers o to receive bar-lifecycle callbacks.
func (b *ReplayBroker) AddBarObserver(o BarObserver) { b.barObservers = append(b.barObservers, o) }

// AddOrderNotificationObserver registers o to receive fill notifications.
func (b *ReplayBroker) AddOrderNotificationObserver(o OrderNotificationObserver) {
	b.orderObservers = append(b.orderObservers, o)
}

// Subscribe subscribes symbol on the underlying feed.
func (b *ReplayBroker) Subscribe(symbol string) error { return b.Feed.Subscribe(symbol) }

// Unsubscribe drops symbol from the underlying feed.
func (b *ReplayBroker) Unsubscribe(symbol string) { b.Feed.Unsubscribe(symbol) }

// SubmitOrder queues o for admission at the next eligible point in the
// current or next bar's schedule (original_source: submitOrder appends to
// newOrders, picked up by the next addNewOrders call).
func (b *ReplayBroker) SubmitOrder(o order.Order) {
	icb := b.lookupOrCreateCB(o.Symbol)
	icb.newOrders = append(icb.newOrders, o)
}

// InstrumentPosition returns symbol's current position, or the zero value
// and false if symbol has never been referenced.
func (b *ReplayBroker) InstrumentPosition(symbol string) (InstrumentPosition, bool) {
	icb, ok := b.icbs[symbol]
	if !ok {
		return InstrumentPosition{}, false
	}
	return icb.position, true
}

// PositionPnL returns the realized/unrealized PnL for symbol's open
// position at price. The caller must ensure a position exists.
func (b *ReplayBroker) PositionPnL(symbol string, price float64) (realized, unrealized float64) {
	inst, ok := b.Catalog.Lookup(symbol)
	invariant.Require(ok, "broker: unknown instrument %q", symbol)
	return b.Portfolio.PositionPnL(inst, price)
}

// Reset clears all runtime state (subscriptions stay with the feed; call
// Feed.Reset separately to drop those too) and all observer registrations,
// matching original_source's reset semantics of clearing event lists.
func (b *ReplayBroker) Reset() {
	b.barObservers = nil
	b.orderObservers = nil
	b.icbs = make(map[string]*instrumentControlBlock)
}

// Start runs the feed to completion, driving the bar schedule for every
// bar it produces until the feed is exhausted or ctx is cancelled.
func (b *ReplayBroker) Start(ctx context.Context) error {
	return b.Feed.Start(ctx, func(bk bar.Bar) {
		b.handleBar(ctx, bk)
	})
}

func (b *ReplayBroker) lookupOrCreateCB(symbol string) *instrumentControlBlock {
	icb, ok := b.icbs[symbol]
	if ok {
		return icb
	}
	inst, _ := b.Catalog.Lookup(symbol) // zero Instrument is tolerated, mirroring the C++ nullptr case
	icb = &instrumentControlBlock{instrument: inst, position: InstrumentPosition{Since: order.TimestampMin}}
	b.icbs[symbol] = icb
	return icb
}

// handleBar runs the sixteen-step intra-bar schedule for a single bar.
// Every step number below matches original_source's barEventHandler
// comments verbatim, including step 15's apparently redundant addNewOrders
// call — see DESIGN.md for why it's kept.
func (b *ReplayBroker) handleBar(ctx context.Context, bk bar.Bar) {
	icb := b.lookupOrCreateCB(bk.Symbol)

	// 1. All orders are eligible for execution at this point.
	b.addNewOrders(icb)

	// 2. Process orders at open (limit/stop orders fill on the tick itself).
	b.processOrders(icb, bar.OpenTick(bk), false)

	// 3. Send notifications for the executed trades.
	b.postOrderNotifications(ctx, icb)

	// 4. Notify the opening of the bar.
	for _, obs := range b.barObservers {
		obs.OnBarOpen(bk.OpenOnly())
	}

	// 5. Pick up any new orders submitted during steps 2 and 4.
	b.addNewOrders(icb)

	// 6. Process orders at high.
	b.processOrders(icb, bar.HighTick(bk), true)

	// Orders submitted during high processing are not eligible during low.

	// 7. Send notifications for the executed trades.
	b.postOrderNotifications(ctx, icb)

	// 8. Process orders at low.
	b.processOrders(icb, bar.LowTick(bk), true)

	// 9. Send notifications for the executed trades.
	b.postOrderNotifications(ctx, icb)

	// 10. Publish the bar, not yet closed.
	for _, obs := range b.barObservers {
		obs.OnBarClose(bk)
	}

	// 11. Pick up any new orders submitted during steps 8 and 10.
	b.addNewOrders(icb)

	// 12. Process orders at close.
	b.processOrders(icb, bar.CloseTick(bk), false)

	// 13. Send notifications for the executed trades.
	b.postOrderNotifications(ctx, icb)

	// 14. The bar is closed.
	for _, obs := range b.barObservers {
		obs.OnBarClosed(bk)
	}

	// 15. Make all orders eligible.
	b.addNewOrders(icb)

	// 16. It's not safe to clean up the order slice earlier, since
	// notifications reference entries in it directly; all expiration and
	// removal is postponed until now.
	b.cleanupOrders(ctx, icb, bk.Timestamp)
}

func (b *ReplayBroker) addNewOrders(icb *instrumentControlBlock) {
	if len(icb.newOrders) == 0 {
		return
	}
	icb.orders = append(icb.orders, icb.newOrders...)
	icb.newOrders = icb.newOrders[:0]
}

func (b *ReplayBroker) processOrders(icb *instrumentControlBlock, tick bar.Tick, executeOnLimitOrStop bool) {
	for i := range icb.orders {
		o := &icb.orders[i]
		previousPosition := icb.position.Position

		fill, filled := o.TryFill(tick, previousPosition, executeOnLimitOrStop)
		if !filled {
			continue
		}

		icb.position = InstrumentPosition{Position: fill.NewPosition, Since: tick.Timestamp}

		removeExits := (previousPosition > 0 && fill.NewPosition <= 0) ||
			(previousPosition < 0 && fill.NewPosition >= 0)
		if removeExits {
			for j := 0; j < i; j++ {
				oo := &icb.orders[j]
				if oo.Type.IsExit() && oo.IsActive() {
					oo.Cancel()
				}
			}
		}

		o.Fill()
		b.Portfolio.AppendTransaction(icb.instrument, tick.Timestamp, fill.TransactionQuantity, fill.Price, 0)

		icb.executions = append(icb.executions, order.Execution{
			ID:        order.NewExecutionID(),
			Timestamp: tick.Timestamp, Price: fill.Price, Quantity: fill.FilledQuantity,
		})
		icb.notifications = append(icb.notifications, order.Notification{
			Order:     *o,
			Execution: icb.executions[len(icb.executions)-1],
		})
	}
}

func (b *ReplayBroker) postOrderNotifications(ctx context.Context, icb *instrumentControlBlock) {
	for _, n := range icb.notifications {
		telemetry.Fill(ctx, n.Order.Symbol, n.Execution.Price, n.Execution.Quantity, n.Order.Type.String())
		for _, obs := range b.orderObservers {
			obs.OnOrderNotification(n)
		}
	}
	icb.notifications = icb.notifications[:0]
}

func (b *ReplayBroker) cleanupOrders(ctx context.Context, icb *instrumentControlBlock, barTimestamp time.Time) {
	kept := icb.orders[:0]
	for i := range icb.orders {
		o := &icb.orders[i]
		wasCancelledAlready := o.IsCancelled()
		barsValidFor := o.BarsValidFor()
		o.UpdateState(barTimestamp)

		switch {
		case o.IsActive():
			kept = append(kept, *o)
		case wasCancelledAlready:
			telemetry.Cancel(ctx, o.Symbol, "exit_order_superseded")
		case o.IsCancelled() && barsValidFor > 0:
			telemetry.Expire(ctx, o.Symbol, barsValidFor)
		}
	}
	icb.orders = kept
}
