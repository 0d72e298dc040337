package strategy

import (
	"testing"
	"time"

	"backtest-engine/bar"
	"backtest-engine/order"
)

type recordingStrategy struct {
	NoopStrategy

	opens   []bar.Bar
	closes  []bar.Bar
	closeds []bar.Bar

	historyLenAtClose int

	notifications []order.Notification
}

func (s *recordingStrategy) OnBarOpen(h *bar.History, b bar.Bar) { s.opens = append(s.opens, b) }
func (s *recordingStrategy) OnBarClose(h *bar.History, b bar.Bar) {
	s.closes = append(s.closes, b)
	s.historyLenAtClose = h.Len()
}
func (s *recordingStrategy) OnBarClosed(h *bar.History, b bar.Bar) { s.closeds = append(s.closeds, b) }
func (s *recordingStrategy) OnOrderNotification(n order.Notification) {
	s.notifications = append(s.notifications, n)
}

func TestAdapterDispatchesBarLifecycle(t *testing.T) {
	strat := &recordingStrategy{}
	a := NewAdapter(strat)

	b := bar.Bar{Symbol: "ES", Timestamp: time.Now(), Open: 10, High: 11, Low: 9, Close: 10.5}

	a.OnBarOpen(b.OpenOnly())
	a.OnBarClose(b)
	a.OnBarClosed(b)

	if len(strat.opens) != 1 || len(strat.closes) != 1 || len(strat.closeds) != 1 {
		t.Fatalf("expected one callback of each kind, got opens=%d closes=%d closeds=%d",
			len(strat.opens), len(strat.closes), len(strat.closeds))
	}
}

func TestAdapterAppendsToHistoryBeforeOnBarClose(t *testing.T) {
	strat := &recordingStrategy{}
	a := NewAdapter(strat)

	a.OnBarClose(bar.Bar{Symbol: "ES", Close: 100})
	if strat.historyLenAtClose != 1 {
		t.Errorf("history length seen by OnBarClose = %d, want 1 (current bar already appended)", strat.historyLenAtClose)
	}

	a.OnBarClose(bar.Bar{Symbol: "ES", Close: 101})
	if strat.historyLenAtClose != 2 {
		t.Errorf("history length after second close = %d, want 2", strat.historyLenAtClose)
	}
}

func TestAdapterKeepsPerSymbolHistory(t *testing.T) {
	strat := &recordingStrategy{}
	a := NewAdapter(strat)

	a.OnBarClose(bar.Bar{Symbol: "ES", Close: 100})
	a.OnBarClose(bar.Bar{Symbol: "CL", Close: 70})
	a.OnBarClose(bar.Bar{Symbol: "ES", Close: 101})

	if a.historyFor("ES").Len() != 2 {
		t.Errorf("ES history length = %d, want 2", a.historyFor("ES").Len())
	}
	if a.historyFor("CL").Len() != 1 {
		t.Errorf("CL history length = %d, want 1", a.historyFor("CL").Len())
	}
}

func TestAdapterForwardsOrderNotifications(t *testing.T) {
	strat := &recordingStrategy{}
	a := NewAdapter(strat)

	n := order.Notification{Order: order.EnterLongOrder("ES", 1)}
	a.OnOrderNotification(n)

	if len(strat.notifications) != 1 {
		t.Fatalf("notifications forwarded = %d, want 1", len(strat.notifications))
	}
}
