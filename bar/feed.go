package bar

import "context"

// Feed produces bars in global non-decreasing timestamp order across a
// subscribed symbol set, and signals exhaustion via Bar.IsLast on each
// stream's final bar. Ties (same timestamp, different symbols) are
// permitted; their relative order is unspecified but stable across runs
// given the same subscription order (spec §4.1).
type Feed interface {
	// Subscribe registers a per-symbol stream. Re-subscribing is a no-op.
	Subscribe(symbol string) error
	// Unsubscribe drops a stream; a no-op if absent.
	Unsubscribe(symbol string)
	// Start synchronously emits bars until every stream is exhausted,
	// calling onBar once per bar. It returns when the feed is exhausted or
	// ctx is cancelled.
	Start(ctx context.Context, onBar func(Bar)) error
	// Reset drops all active subscriptions.
	Reset()
}
