package portfolio

import (
	"math"

	"backtest-engine/stats"
)

// TradeSummary aggregates a set of TradeStats plus the daily PnL series
// running through them, ported from original_source's TradeSummary /
// TradeSummaryWA.
type TradeSummary struct {
	NumTrades uint64

	GrossProfits float64
	GrossLosses  float64
	ProfitFactor float64

	AverageDailyPnl float64
	DailyPnlStdDev  float64
	SharpeRatio     float64

	AverageTradePnl float64
	TradePnlStdDev  float64

	PctPositive float64
	PctNegative float64

	MaxWin         float64
	MaxLoss        float64
	AverageWin     float64
	AverageLoss    float64
	AverageWinLoss float64

	EquityMin   float64
	EquityMax   float64
	MaxDrawdown float64
}

// tradeSummaryWA accumulates TradeStats one at a time into a TradeSummary,
// folding the daily PnL series to compute equity curve extremes, drawdown
// and Sharpe without retaining either series in full. Ported from
// original_source's TradeSummaryWA.
type tradeSummaryWA struct {
	numTrades uint64

	grossProfits float64
	grossLosses  float64

	dailyPnlStats stats.AverageAndVariance
	pnlStats      stats.AverageAndVariance

	positive uint64
	negative uint64

	maxWin  float64
	maxLoss float64

	averageWinTrade  stats.Average
	averageLossTrade stats.Average

	pnl   PnLSeries
	pnlID int

	previousEquity float64
	minEquity      float64
	maxEquity      float64
	maxDrawdown    float64
}

func newTradeSummaryWA(pnl PnLSeries) *tradeSummaryWA {
	return &tradeSummaryWA{
		pnl:         pnl,
		maxWin:      math.Inf(-1),
		maxLoss:     math.Inf(1),
		minEquity:   math.Inf(1),
		maxEquity:   math.Inf(-1),
		maxDrawdown: math.Inf(1),
	}
}

func (w *tradeSummaryWA) update(ts TradeStats) {
	w.numTrades++
	switch {
	case ts.PnL < 0:
		w.negative++
		w.averageLossTrade.Add(ts.PnL)
		w.grossLosses += ts.PnL
	case ts.PnL > 0:
		w.positive++
		w.averageWinTrade.Add(ts.PnL)
		w.grossProfits += ts.PnL
	}

	w.pnlStats.Add(ts.PnL)

	w.maxWin = math.Max(w.maxWin, ts.PnL)
	w.maxLoss = math.Min(w.maxLoss, ts.PnL)

	for w.pnlID < w.pnl.Len() && w.pnl.Timestamps[w.pnlID].Before(ts.Start) {
		w.pnlID++
	}

	for w.pnlID < w.pnl.Len() && !w.pnl.Timestamps[w.pnlID].After(ts.End) {
		equity := w.previousEquity + w.pnl.Values[w.pnlID]
		w.maxEquity = math.Max(w.maxEquity, equity)
		w.minEquity = math.Min(w.minEquity, equity)
		w.maxDrawdown = math.Min(w.maxDrawdown, equity-w.maxEquity)
		w.previousEquity = equity

		if w.pnl.Values[w.pnlID] != 0 {
			w.dailyPnlStats.Add(w.pnl.Values[w.pnlID])
		}
		w.pnlID++
	}
}

func (w *tradeSummaryWA) summarize() TradeSummary {
	var s TradeSummary
	s.NumTrades = w.numTrades
	if w.numTrades == 0 {
		return s
	}

	s.GrossLosses = w.grossLosses
	s.GrossProfits = w.grossProfits
	if w.grossLosses != 0 {
		s.ProfitFactor = math.Abs(w.grossProfits / w.grossLosses)
	} else {
		s.ProfitFactor = math.Abs(w.grossProfits)
	}

	s.AverageTradePnl = w.pnlStats.GetAverage()
	s.TradePnlStdDev = w.pnlStats.GetStdDev()
	s.PctNegative = float64(w.negative) / float64(w.numTrades) * 100
	s.PctPositive = float64(w.positive) / float64(w.numTrades) * 100

	s.MaxLoss = w.maxLoss
	s.MaxWin = w.maxWin
	s.AverageLoss = w.averageLossTrade.Get()
	s.AverageWin = w.averageWinTrade.Get()
	if s.AverageLoss != 0 {
		s.AverageWinLoss = s.AverageWin / -s.AverageLoss
	} else {
		s.AverageWinLoss = s.AverageWin
	}

	s.EquityMin = w.minEquity
	s.EquityMax = w.maxEquity
	s.MaxDrawdown = w.maxDrawdown

	s.AverageDailyPnl = w.dailyPnlStats.GetAverage()
	s.DailyPnlStdDev = w.dailyPnlStats.GetStdDev()
	s.SharpeRatio = s.AverageDailyPnl / s.DailyPnlStdDev * math.Sqrt(252)

	return s
}

// Summarize splits tradeStats into all/longs/shorts summaries, classifying
// each trade by the sign of its InitialPosition, and folding pnl (a daily
// mark-to-market series) to compute equity-curve statistics alongside each.
func Summarize(tradeStats []TradeStats, pnl PnLSeries) (all, longs, shorts TradeSummary) {
	allWA := newTradeSummaryWA(pnl)
	longsWA := newTradeSummaryWA(pnl)
	shortsWA := newTradeSummaryWA(pnl)

	for _, ts := range tradeStats {
		switch {
		case ts.InitialPosition > 0:
			allWA.update(ts)
			longsWA.update(ts)
		case ts.InitialPosition < 0:
			allWA.update(ts)
			shortsWA.update(ts)
		}
	}

	return allWA.summarize(), longsWA.summarize(), shortsWA.summarize()
}
