package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"backtest-engine/order"
	"backtest-engine/portfolio"
)

// ResultWriter persists one backtest run's executions, trade statistics,
// PnL series, and trade summaries under a single run ID, so multiple runs
// can share a database without clobbering each other's results.
type ResultWriter struct {
	DB    *DB
	RunID string
}

// NewResultWriter returns a writer scoped to runID.
func NewResultWriter(db *DB, runID string) *ResultWriter {
	return &ResultWriter{DB: db, RunID: runID}
}

// WriteExecution records one fill notification. Price is stored as a
// decimal via shopspring/decimal to avoid float round-tripping error
// accumulating across a long-running persisted ledger.
func (w *ResultWriter) WriteExecution(ctx context.Context, n order.Notification) error {
	price := decimal.NewFromFloat(n.Execution.Price)
	_, err := w.DB.ExecContext(ctx,
		`insert into executions (execution_id, run_id, symbol, timestamp, price, quantity, order_type) values (?, ?, ?, ?, ?, ?, ?)`,
		n.Execution.ID, w.RunID, n.Order.Symbol, n.Execution.Timestamp.UnixMicro(), price.String(), n.Execution.Quantity, n.Order.Type.String(),
	)
	if err != nil {
		return fmt.Errorf("storage: write execution: %w", err)
	}
	return nil
}

// WriteTradeStats persists one symbol's per-trade statistics.
func (w *ResultWriter) WriteTradeStats(ctx context.Context, stats []portfolio.TradeStats) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin trade stats write: %w", err)
	}
	defer tx.Rollback()

	for _, ts := range stats {
		pnl := decimal.NewFromFloat(ts.PnL)
		fees := decimal.NewFromFloat(ts.Fees)
		maxNotional := decimal.NewFromFloat(ts.MaxNotionalCost)
		if _, err := tx.ExecContext(ctx,
			`insert into trade_stats (run_id, symbol, start, end, initial_position, max_position, num_transactions, max_notional_cost, pnl, pct_pnl, tick_pnl, fees)
			 values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.RunID, ts.Symbol, ts.Start.UnixMicro(), ts.End.UnixMicro(), ts.InitialPosition, ts.MaxPosition,
			ts.NumTransactions, maxNotional.String(), pnl.String(), ts.PctPnL, ts.TickPnL, fees.String(),
		); err != nil {
			return fmt.Errorf("storage: write trade stats for %s: %w", ts.Symbol, err)
		}
	}

	return tx.Commit()
}

// WritePnL persists one symbol's daily mark-to-market PnL series.
func (w *ResultWriter) WritePnL(ctx context.Context, symbol string, series portfolio.PnLSeries) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin pnl write: %w", err)
	}
	defer tx.Rollback()

	for i, t := range series.Timestamps {
		pnl := decimal.NewFromFloat(series.Values[i])
		if _, err := tx.ExecContext(ctx,
			`insert into pnls (run_id, symbol, timestamp, pnl) values (?, ?, ?, ?)
			 on conflict(run_id, symbol, timestamp) do update set pnl=excluded.pnl`,
			w.RunID, symbol, t.UnixMicro(), pnl.String(),
		); err != nil {
			return fmt.Errorf("storage: write pnl for %s: %w", symbol, err)
		}
	}

	return tx.Commit()
}

// WriteTradeSummary persists one (symbol, type) trade summary, where typ is
// "all", "longs", or "shorts".
func (w *ResultWriter) WriteTradeSummary(ctx context.Context, symbol, typ string, s portfolio.TradeSummary) error {
	_, err := w.DB.ExecContext(ctx,
		`insert into trade_summaries (
			run_id, symbol, type, num_trades, gross_profits, gross_losses, profit_factor,
			average_daily_pnl, daily_pnl_stddev, sharpe_ratio, average_trade_pnl, trade_pnl_stddev,
			pct_positive, pct_negative, max_win, max_loss, average_win, average_loss, average_win_loss,
			equity_min, equity_max, max_drawdown
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(run_id, symbol, type) do update set
			num_trades=excluded.num_trades, gross_profits=excluded.gross_profits, gross_losses=excluded.gross_losses,
			profit_factor=excluded.profit_factor, average_daily_pnl=excluded.average_daily_pnl,
			daily_pnl_stddev=excluded.daily_pnl_stddev, sharpe_ratio=excluded.sharpe_ratio,
			average_trade_pnl=excluded.average_trade_pnl, trade_pnl_stddev=excluded.trade_pnl_stddev,
			pct_positive=excluded.pct_positive, pct_negative=excluded.pct_negative,
			max_win=excluded.max_win, max_loss=excluded.max_loss, average_win=excluded.average_win,
			average_loss=excluded.average_loss, average_win_loss=excluded.average_win_loss,
			equity_min=excluded.equity_min, equity_max=excluded.equity_max, max_drawdown=excluded.max_drawdown`,
		w.RunID, symbol, typ, s.NumTrades, s.GrossProfits, s.GrossLosses, s.ProfitFactor,
		s.AverageDailyPnl, s.DailyPnlStdDev, s.SharpeRatio, s.AverageTradePnl, s.TradePnlStdDev,
		s.PctPositive, s.PctNegative, s.MaxWin, s.MaxLoss, s.AverageWin, s.AverageLoss, s.AverageWinLoss,
		s.EquityMin, s.EquityMax, s.MaxDrawdown,
	)
	if err != nil {
		return fmt.Errorf("storage: write trade summary for %s/%s: %w", symbol, typ, err)
	}
	return nil
}
