package order

import (
	"backtest-engine/bar"
	"backtest-engine/internal/invariant"
)

// Fill describes the outcome of a successful TryFill: the price the
// transaction posts at, the absolute quantity executed, the signed
// quantity to post to the ledger, and the resulting signed position.
type Fill struct {
	Price               float64
	FilledQuantity      int64
	TransactionQuantity int64
	NewPosition         int64
}

// TryFill attempts to match o against tick given the current signed
// position. executeOnLimitOrStop selects whether a triggered limit/stop
// fills at its own price (true, used at the high/low synthetic ticks) or
// at the tick's own price (false, used at the open/close synthetic
// ticks) — spec §4.2/§4.3. Returns ok=false if the order does not fill on
// this tick; o is otherwise left untouched except for the stop-limit
// arming flag.
func (o *Order) TryFill(tick bar.Tick, position int64, executeOnLimitOrStop bool) (fill Fill, ok bool) {
	if !o.IsActive() {
		return Fill{}, false
	}

	switch o.Type {

	// ── market orders ──────────────────────────────────────────────
	case EnterLong:
		if position == 0 {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			q := o.Quantity
			return Fill{Price: tick.Price, FilledQuantity: q, TransactionQuantity: q, NewPosition: q}, true
		}

	case EnterShort:
		if position == 0 {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			q := o.Quantity
			return Fill{Price: tick.Price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: -q}, true
		}

	case ExitLong:
		if position > 0 {
			q := o.computeFilledQuantity(position)
			return Fill{Price: tick.Price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
		}

	case ExitShort:
		// Open Question (preserved): fires regardless of position sign,
		// unlike ExitLong which requires position > 0. Matches
		// original_source's Order::tryFill exactly.
		q := o.computeFilledQuantity(position)
		return Fill{Price: tick.Price, FilledQuantity: q, TransactionQuantity: q, NewPosition: 0}, true

	// ── limit orders ───────────────────────────────────────────────
	case EnterLongLimit:
		if position == 0 && tick.Price <= o.LimitPrice {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: o.Quantity, NewPosition: o.Quantity}, true
		}

	case ExitShortLimit:
		if position < 0 && tick.Price <= o.LimitPrice {
			q := o.computeFilledQuantity(position)
			price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: q, TransactionQuantity: q, NewPosition: 0}, true
		}

	case EnterShortLimit:
		if position == 0 && o.LimitPrice <= tick.Price {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: -o.Quantity, NewPosition: -o.Quantity}, true
		}

	case ExitLongLimit:
		if position > 0 && o.LimitPrice <= tick.Price {
			q := o.computeFilledQuantity(position)
			price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
		}

	// ── stop orders ────────────────────────────────────────────────
	case EnterLongStop:
		if position == 0 && o.StopPrice <= tick.Price {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
			// Open Question (preserved): transactionQuantity is negative
			// here while newPosition is positive, asymmetric with the
			// market EnterLong case. Matches original_source exactly; an
			// implementer integrating against a known-good accounting
			// system should verify whether this should be +q instead.
			return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: -o.Quantity, NewPosition: o.Quantity}, true
		}

	case ExitShortStop:
		if position < 0 && o.StopPrice <= tick.Price {
			q := o.computeFilledQuantity(position)
			price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
		}

	case ExitLongStop:
		if position > 0 && o.StopPrice >= tick.Price {
			q := o.computeFilledQuantity(position)
			price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
		}

	case EnterShortStop:
		if position == 0 && o.StopPrice >= tick.Price {
			invariant.Assert(o.Quantity > 0, "order %s: entry order quantity must be positive, got %d", o.Symbol, o.Quantity)
			price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
			return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: -o.Quantity, NewPosition: -o.Quantity}, true
		}

	// ── stop-limit orders (two-phase arming) ──────────────────────
	case EnterLongStopLimit:
		if position == 0 {
			if o.isStopped() {
				if o.LimitPrice >= tick.Price {
					price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: o.Quantity, NewPosition: o.Quantity}, true
				}
			} else if o.StopPrice <= tick.Price {
				if o.LimitPrice >= tick.Price || (executeOnLimitOrStop && o.StopPrice <= o.LimitPrice) {
					price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: o.Quantity, NewPosition: o.Quantity}, true
				}
				o.makeStopped()
			}
		}

	case ExitLongStopLimit:
		if o.isStopped() {
			if o.LimitPrice <= tick.Price {
				q := o.computeFilledQuantity(position)
				price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
				return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
			}
		} else if o.StopPrice >= tick.Price {
			if o.LimitPrice <= tick.Price || (executeOnLimitOrStop && o.LimitPrice <= o.StopPrice) {
				q := o.computeFilledQuantity(position)
				price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
				return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
			}
			o.makeStopped()
		}

	case EnterShortStopLimit:
		if position == 0 {
			if o.isStopped() {
				if o.LimitPrice <= tick.Price {
					price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: -o.Quantity, NewPosition: -o.Quantity}, true
				}
			} else if o.StopPrice >= tick.Price {
				if o.LimitPrice <= tick.Price || (executeOnLimitOrStop && o.StopPrice >= o.LimitPrice) {
					price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: o.Quantity, TransactionQuantity: -o.Quantity, NewPosition: -o.Quantity}, true
				}
				o.makeStopped()
			}
		}

	case ExitShortStopLimit:
		if position < 0 {
			if o.isStopped() {
				if o.LimitPrice >= tick.Price {
					q := o.computeFilledQuantity(position)
					price := priceOr(executeOnLimitOrStop, o.LimitPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
				}
			} else if o.StopPrice <= tick.Price {
				if o.LimitPrice >= tick.Price || (executeOnLimitOrStop && o.StopPrice <= o.LimitPrice) {
					q := o.computeFilledQuantity(position)
					price := priceOr(executeOnLimitOrStop, o.StopPrice, tick.Price)
					return Fill{Price: price, FilledQuantity: q, TransactionQuantity: -q, NewPosition: 0}, true
				}
				o.makeStopped()
			}
		}
	}

	return Fill{}, false
}

func priceOr(executeOnLimitOrStop bool, limitOrStopPrice, tickPrice float64) float64 {
	if executeOnLimitOrStop {
		return limitOrStopPrice
	}
	return tickPrice
}
