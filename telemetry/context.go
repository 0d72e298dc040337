package telemetry

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	symbolKey contextKey = "symbol"
	barKey    contextKey = "bar_time"
)

// RunInfo carries trace identifiers through a replay's context.
// RunID identifies one engine run end to end; the backtest command sets it.
// Symbol and BarTime are carried when a caller sets them; the broker does
// not set them, and passes the symbol to each event as a field instead.
type RunInfo struct {
	RunID   string
	Symbol  string
	BarTime string
}

// WithRunInfo returns a context carrying info, overlaying any fields already set.
func WithRunInfo(ctx context.Context, info RunInfo) context.Context {
	if info.RunID != "" {
		ctx = context.WithValue(ctx, runIDKey, info.RunID)
	}
	if info.Symbol != "" {
		ctx = context.WithValue(ctx, symbolKey, info.Symbol)
	}
	if info.BarTime != "" {
		ctx = context.WithValue(ctx, barKey, info.BarTime)
	}
	return ctx
}

// RunInfoFromContext extracts whatever RunInfo fields were set on ctx.
func RunInfoFromContext(ctx context.Context) RunInfo {
	var info RunInfo
	if v, ok := ctx.Value(runIDKey).(string); ok {
		info.RunID = v
	}
	if v, ok := ctx.Value(symbolKey).(string); ok {
		info.Symbol = v
	}
	if v, ok := ctx.Value(barKey).(string); ok {
		info.BarTime = v
	}
	return info
}
