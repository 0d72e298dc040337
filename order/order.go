// Package order implements the twelve order types a strategy can submit
// (market/limit/stop/stop-limit × enter/exit × long/short) and the
// position-aware fill predicate that matches them against synthetic
// intra-bar ticks. This is a direct port of original_source's Order/
// Order::tryFill, including its two preserved quirks (see the Open
// Question comments on EnterLongStop and ExitShort in matcher.go) — this
// specification preserves source behavior for both by default.
package order

import (
	"math"
	"time"

	"github.com/google/uuid"

	"backtest-engine/internal/invariant"
)

// Type enumerates the twelve order variants plus the four market shapes.
type Type int

const (
	EnterLong Type = iota
	EnterLongLimit
	EnterLongStop
	EnterLongStopLimit
	EnterShort
	EnterShortLimit
	EnterShortStop
	EnterShortStopLimit
	ExitLong
	ExitLongLimit
	ExitLongStop
	ExitLongStopLimit
	ExitShort
	ExitShortLimit
	ExitShortStop
	ExitShortStopLimit
)

func (t Type) String() string {
	names := [...]string{
		"EnterLong", "EnterLongLimit", "EnterLongStop", "EnterLongStopLimit",
		"EnterShort", "EnterShortLimit", "EnterShortStop", "EnterShortStopLimit",
		"ExitLong", "ExitLongLimit", "ExitLongStop", "ExitLongStopLimit",
		"ExitShort", "ExitShortLimit", "ExitShortStop", "ExitShortStopLimit",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "Unknown"
	}
	return names[t]
}

// IsEntry reports whether t opens a new position from flat.
func (t Type) IsEntry() bool {
	switch t {
	case EnterLong, EnterLongLimit, EnterLongStop, EnterLongStopLimit,
		EnterShort, EnterShortLimit, EnterShortStop, EnterShortStopLimit:
		return true
	default:
		return false
	}
}

// IsExit reports whether t closes an existing position.
func (t Type) IsExit() bool { return !t.IsEntry() }

// State is the order's lifecycle position.
type State int

const (
	Active State = iota
	Filled
	Cancelled
)

// PositionQuantity is the sentinel quantity meaning "whatever closes the
// position" on an exit order.
const PositionQuantity int64 = -1

// TimestampMin is the sentinel "before any real bar" timestamp that
// LastBarSeen is initialized to, so the first UpdateState call after
// SetExpiration always triggers a decrement (original_source:
// TIMESTAMP_MIN).
var TimestampMin = time.Time{}

// Flags carries the stop-limit two-phase arming bit.
const stopWasTriggered = 0x1

// Order is a strategy's instruction to the broker, plus its own matching
// state. Orders are mutated in place by TryFill/UpdateState as the broker
// steps them through the intra-bar schedule; a filled or cancelled order
// takes no further part in matching.
type Order struct {
	Symbol     string
	Type       Type
	State      State
	Quantity   int64
	LimitPrice float64
	StopPrice  float64
	FillPrice  float64
	SignalTag  string

	flags        uint
	barsValidFor int   // -1 means "no expiration"
	lastBarSeen  time.Time
}

func newOrder(symbol string, qty int64, limitPrice, stopPrice float64, t Type) Order {
	return Order{
		Symbol:       symbol,
		Type:         t,
		State:        Active,
		Quantity:     qty,
		LimitPrice:   limitPrice,
		StopPrice:    stopPrice,
		FillPrice:    math.NaN(),
		barsValidFor: -1,
	}
}

func EnterLongOrder(symbol string, qty int64) Order { return newOrder(symbol, qty, math.NaN(), math.NaN(), EnterLong) }
func EnterLongLimitOrder(symbol string, qty int64, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, math.NaN(), EnterLongLimit)
}
func EnterLongStopOrder(symbol string, qty int64, stopPrice float64) Order {
	return newOrder(symbol, qty, math.NaN(), stopPrice, EnterLongStop)
}
func EnterLongStopLimitOrder(symbol string, qty int64, stopPrice, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, stopPrice, EnterLongStopLimit)
}

func EnterShortOrder(symbol string, qty int64) Order { return newOrder(symbol, qty, math.NaN(), math.NaN(), EnterShort) }
func EnterShortLimitOrder(symbol string, qty int64, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, math.NaN(), EnterShortLimit)
}
func EnterShortStopOrder(symbol string, qty int64, stopPrice float64) Order {
	return newOrder(symbol, qty, math.NaN(), stopPrice, EnterShortStop)
}
func EnterShortStopLimitOrder(symbol string, qty int64, stopPrice, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, stopPrice, EnterShortStopLimit)
}

func ExitLongOrder(symbol string, qty int64) Order { return newOrder(symbol, qty, math.NaN(), math.NaN(), ExitLong) }
func ExitLongLimitOrder(symbol string, qty int64, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, math.NaN(), ExitLongLimit)
}
func ExitLongStopOrder(symbol string, qty int64, stopPrice float64) Order {
	return newOrder(symbol, qty, math.NaN(), stopPrice, ExitLongStop)
}
func ExitLongStopLimitOrder(symbol string, qty int64, stopPrice, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, stopPrice, ExitLongStopLimit)
}

func ExitShortOrder(symbol string, qty int64) Order { return newOrder(symbol, qty, math.NaN(), math.NaN(), ExitShort) }
func ExitShortLimitOrder(symbol string, qty int64, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, math.NaN(), ExitShortLimit)
}
func ExitShortStopOrder(symbol string, qty int64, stopPrice float64) Order {
	return newOrder(symbol, qty, math.NaN(), stopPrice, ExitShortStop)
}
func ExitShortStopLimitOrder(symbol string, qty int64, stopPrice, limitPrice float64) Order {
	return newOrder(symbol, qty, limitPrice, stopPrice, ExitShortStopLimit)
}

func (o *Order) Activate() { o.State = Active }
func (o *Order) Fill()     { o.State = Filled }
func (o *Order) Cancel()   { o.State = Cancelled }

func (o *Order) IsActive() bool    { return o.State == Active }
func (o *Order) IsFilled() bool    { return o.State == Filled }
func (o *Order) IsCancelled() bool { return o.State == Cancelled }

func (o *Order) isStopped() bool  { return o.flags&stopWasTriggered != 0 }
func (o *Order) makeStopped()     { o.flags |= stopWasTriggered }

// computeFilledQuantity resolves the order's nominal quantity (or the
// PositionQuantity sentinel) against the current position size.
func (o *Order) computeFilledQuantity(position int64) int64 {
	invariant.Assert(o.Quantity > 0 || o.Quantity == PositionQuantity,
		"order %s: quantity must be > 0 or PositionQuantity, got %d", o.Symbol, o.Quantity)
	if o.Quantity > 0 {
		return min64(o.Quantity, abs64(position))
	}
	return abs64(position)
}

// SetExpiration makes the order valid for numBars bars inclusive of the
// bar it is submitted on.
func (o *Order) SetExpiration(numBars int) {
	o.barsValidFor = numBars
	o.lastBarSeen = TimestampMin
}

// UpdateState decrements the expiration counter at end-of-bar if it
// differs from the last bar seen, cancelling the order once it reaches
// zero. A no-op for orders with no expiration set or that aren't active.
func (o *Order) UpdateState(barTimestamp time.Time) {
	if !o.IsActive() || o.barsValidFor < 0 {
		return
	}
	if !barTimestamp.Equal(o.lastBarSeen) {
		o.barsValidFor--
		if o.barsValidFor == 0 {
			o.Cancel()
		} else {
			o.lastBarSeen = barTimestamp
		}
	}
}

// BarsValidFor returns the remaining expiration counter, or a negative
// value if no expiration is set.
func (o *Order) BarsValidFor() int { return o.barsValidFor }

// Notification pairs a filled order with its execution, posted to
// strategy observers after each tick's matching pass completes.
type Notification struct {
	Order     Order
	Execution Execution
}

// Execution is the realized counterpart to a fill: always a positive
// quantity (the signed direction lives on the transaction the fill posts
// to the ledger, not here). ID uniquely identifies the fill for
// downstream persistence/correlation; the matcher itself never inspects it.
type Execution struct {
	ID        string
	Timestamp time.Time
	Price     float64
	Quantity  int64
}

// NewExecutionID generates a fresh random identifier for an Execution.
func NewExecutionID() string { return uuid.NewString() }

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
