package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"backtest-engine/bar"
	"backtest-engine/broker"
	"backtest-engine/instrument"
	"backtest-engine/order"
	"backtest-engine/portfolio"
	"backtest-engine/storage"
	"backtest-engine/strategy"
	"backtest-engine/strategy/examples"
	"backtest-engine/telemetry"
)

// priceCollector records each symbol's closing price at every bar close,
// so the PnL series fed into TradeSummary reflects real daily
// mark-to-market values instead of an empty placeholder.
type priceCollector struct {
	series map[string]*portfolio.PnLSeries
}

func newPriceCollector() *priceCollector {
	return &priceCollector{series: make(map[string]*portfolio.PnLSeries)}
}

func (c *priceCollector) OnBarOpen(bar.Bar)    {}
func (c *priceCollector) OnBarClosed(bar.Bar)  {}
func (c *priceCollector) OnBarClose(b bar.Bar) {
	s, ok := c.series[b.Symbol]
	if !ok {
		s = &portfolio.PnLSeries{}
		c.series[b.Symbol] = s
	}
	s.Append(b.Timestamp, b.Close)
}

func (c *priceCollector) pricesFor(symbol string) portfolio.PnLSeries {
	if s, ok := c.series[symbol]; ok {
		return *s
	}
	return portfolio.PnLSeries{}
}

// executionRecorder persists every fill notification to the results
// database as it arrives, rather than reconstructing execution history
// from the ledger afterward.
type executionRecorder struct {
	ctx    context.Context
	writer *storage.ResultWriter
}

func (r *executionRecorder) OnOrderNotification(n order.Notification) {
	if err := r.writer.WriteExecution(r.ctx, n); err != nil {
		telemetry.LogEvent(r.ctx, "error", "persist_execution_failed", map[string]any{"symbol": n.Order.Symbol, "error": err})
	}
}

var runFlags struct {
	catalogDB  string
	dataDir    string
	suffix     string
	dateLayout string
	symbols    string
	strategy   string
	quantity   int64
	lookback   int
	persistDB  string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run a historical replay against a strategy",
	Long:  "run loads an instrument catalog and CSV bar data, replays it through a strategy, and prints trade statistics.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.catalogDB, "catalog", "", "path to the SQLite instrument catalog (required)")
	runCmd.Flags().StringVar(&runFlags.dataDir, "data-dir", "", "directory containing per-symbol CSV bar files (required)")
	runCmd.Flags().StringVar(&runFlags.suffix, "suffix", ".csv", "filename suffix appended to each symbol in --data-dir")
	runCmd.Flags().StringVar(&runFlags.dateLayout, "date-layout", "2006-01-02", "Go reference-time layout used to parse each CSV row's date")
	runCmd.Flags().StringVar(&runFlags.symbols, "symbols", "", "comma-separated symbols to replay (required)")
	runCmd.Flags().StringVar(&runFlags.strategy, "strategy", "buy-and-hold", "registered strategy name (buy-and-hold, channel-breakout)")
	runCmd.Flags().Int64Var(&runFlags.quantity, "quantity", 100, "order quantity the strategy trades per signal")
	runCmd.Flags().IntVar(&runFlags.lookback, "lookback", 20, "lookback window in bars, for strategies that use one (channel-breakout)")
	runCmd.Flags().StringVar(&runFlags.persistDB, "persist", "", "path to a SQLite database to persist results into (optional)")

	runCmd.MarkFlagRequired("catalog")
	runCmd.MarkFlagRequired("data-dir")
	runCmd.MarkFlagRequired("symbols")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	runID := uuid.New().String()
	ctx = telemetry.WithRunInfo(ctx, telemetry.RunInfo{RunID: runID})

	symbols := strings.Split(runFlags.symbols, ",")
	for i := range symbols {
		symbols[i] = strings.TrimSpace(symbols[i])
	}

	catalogDB, err := storage.Open(ctx, storage.DefaultConfig(runFlags.catalogDB))
	if err != nil {
		return fmt.Errorf("open catalog database: %w", err)
	}
	defer catalogDB.Close()

	catalog, err := storage.LoadCatalog(ctx, catalogDB)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	feed := &bar.CSVFeed{
		Directory:  runFlags.dataDir,
		Suffix:     runFlags.suffix,
		DateLayout: runFlags.dateLayout,
	}
	for _, symbol := range symbols {
		if err := feed.Subscribe(symbol); err != nil {
			return fmt.Errorf("subscribe %s: %w", symbol, err)
		}
	}

	port := portfolio.New(runID)
	for _, symbol := range symbols {
		if inst, ok := catalog.Lookup(symbol); ok {
			port.AddInstrument(inst)
		}
	}

	b := broker.New(feed, catalog, port)

	prices := newPriceCollector()
	b.AddBarObserver(prices)

	strat, err := buildStrategy(b, runFlags.strategy, runFlags.quantity, runFlags.lookback)
	if err != nil {
		return err
	}
	adapter := strategy.NewAdapter(strat)
	b.AddBarObserver(adapter)
	b.AddOrderNotificationObserver(adapter)

	var writer *storage.ResultWriter
	if runFlags.persistDB != "" {
		resultsDB, err := storage.Open(ctx, storage.DefaultConfig(runFlags.persistDB))
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer resultsDB.Close()
		writer = storage.NewResultWriter(resultsDB, runID)
		b.AddOrderNotificationObserver(&executionRecorder{ctx: ctx, writer: writer})
	}

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	return reportResults(ctx, cmd, b, catalog, symbols, prices, writer)
}

func buildStrategy(b strategy.OrderSubmitter, name string, quantity int64, lookback int) (strategy.Strategy, error) {
	registry := strategy.NewRegistry()
	registry.Register("buy-and-hold", func() strategy.Strategy { return examples.NewBuyAndHold(b, quantity) })
	registry.Register("channel-breakout", func() strategy.Strategy { return examples.NewChannelBreakout(b, lookback, quantity) })
	return registry.New(name)
}

func reportResults(ctx context.Context, cmd *cobra.Command, b *broker.ReplayBroker, catalog *instrument.Catalog, symbols []string, prices *priceCollector, writer *storage.ResultWriter) error {
	out := cmd.OutOrStdout()

	for _, symbol := range symbols {
		inst, ok := catalog.Lookup(symbol)
		if !ok {
			fmt.Fprintf(out, "%s: not in catalog, skipping\n", symbol)
			continue
		}

		tradeStats := b.Portfolio.TradeStats(inst)
		pnl := b.Portfolio.PnL(inst, prices.pricesFor(symbol))
		fmt.Fprintf(out, "\n%s — %s trade(s)\n", symbol, humanize.Comma(int64(len(tradeStats))))

		all, longs, shorts := portfolio.Summarize(tradeStats, pnl)
		printSummary(out, "all", all)
		printSummary(out, "longs", longs)
		printSummary(out, "shorts", shorts)

		if writer == nil {
			continue
		}
		if err := writer.WriteTradeStats(ctx, tradeStats); err != nil {
			return fmt.Errorf("persist trade stats for %s: %w", symbol, err)
		}
		if err := writer.WritePnL(ctx, symbol, pnl); err != nil {
			return fmt.Errorf("persist pnl for %s: %w", symbol, err)
		}
		if err := writer.WriteTradeSummary(ctx, symbol, "all", all); err != nil {
			return fmt.Errorf("persist trade summary for %s: %w", symbol, err)
		}
		if err := writer.WriteTradeSummary(ctx, symbol, "longs", longs); err != nil {
			return fmt.Errorf("persist trade summary for %s: %w", symbol, err)
		}
		if err := writer.WriteTradeSummary(ctx, symbol, "shorts", shorts); err != nil {
			return fmt.Errorf("persist trade summary for %s: %w", symbol, err)
		}
	}

	return nil
}

func printSummary(out io.Writer, label string, s portfolio.TradeSummary) {
	if s.NumTrades == 0 {
		fmt.Fprintf(out, "  %-7s no trades\n", label)
		return
	}
	fmt.Fprintf(out, "  %-7s trades=%s profitFactor=%.2f sharpe=%.2f maxDrawdown=$%s\n",
		label, humanize.Comma(int64(s.NumTrades)), s.ProfitFactor, s.SharpeRatio, humanize.Commaf(s.MaxDrawdown))
}
