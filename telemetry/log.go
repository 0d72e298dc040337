// Package telemetry emits structured JSON event logs for the engine: order
// fills, cancellations, expirations, and configuration errors. It intentionally does not wrap a logging library — every event is
// one JSON object on one line to stdout, which is enough for an offline
// batch process and is easy to pipe into jq or a log shipper.
package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"backtest-engine/internal/testsupport"
)

var logger = log.New(os.Stdout, "", 0)

// LogEvent writes one structured JSON line: a timestamp, level, event name,
// whatever run-scoped identifiers are on ctx, and the caller-supplied
// fields. The timestamp comes from testsupport.ClockFromContext, not a bare
// time.Now() — tests that want deterministic log output carry a FixedClock
// or ManualClock on ctx via testsupport.WithClock; production code never
// sets one, so it falls back to SystemClock.
func LogEvent(ctx context.Context, level, event string, fields map[string]any) {
	payload := map[string]any{
		"ts":    testsupport.Now(ctx).UTC().Format(time.RFC3339Nano),
		"level": level,
		"event": event,
	}

	info := RunInfoFromContext(ctx)
	if info.RunID != "" {
		payload["run_id"] = info.RunID
	}
	if info.Symbol != "" {
		payload["symbol"] = info.Symbol
	}
	if info.BarTime != "" {
		payload["bar_time"] = info.BarTime
	}

	for k, v := range fields {
		if err, ok := v.(error); ok {
			payload[k] = err.Error()
			continue
		}
		payload[k] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Printf(`{"level":"error","event":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(raw))
}

// Fill logs a completed order execution.
func Fill(ctx context.Context, symbol string, price float64, quantity int64, orderType string) {
	LogEvent(ctx, "info", "order_filled", map[string]any{
		"symbol":     symbol,
		"price":      price,
		"quantity":   quantity,
		"order_type": orderType,
	})
}

// Cancel logs an order cancellation (exit-cancellation rule or operator request).
func Cancel(ctx context.Context, symbol, reason string) {
	LogEvent(ctx, "info", "order_cancelled", map[string]any{
		"symbol": symbol,
		"reason": reason,
	})
}

// Expire logs an order hitting its bars-valid-for limit.
func Expire(ctx context.Context, symbol string, barsValidFor int) {
	LogEvent(ctx, "info", "order_expired", map[string]any{
		"symbol":         symbol,
		"bars_valid_for": barsValidFor,
	})
}

// ConfigError logs a configuration-error-class failure (spec §7).
func ConfigError(ctx context.Context, component string, err error) {
	LogEvent(ctx, "error", "config_error", map[string]any{
		"component": component,
		"error":     err,
	})
}
