package strategy

import (
	"testing"

	"backtest-engine/order"
)

type recordingSubmitter struct {
	orders []order.Order
}

func (r *recordingSubmitter) SubmitOrder(o order.Order) { r.orders = append(r.orders, o) }

func TestTraderEnterLongSubmitsMarketOrder(t *testing.T) {
	sub := &recordingSubmitter{}
	tr := Trader{Broker: sub}

	tr.EnterLong("ES", 10)

	if len(sub.orders) != 1 {
		t.Fatalf("orders submitted = %d, want 1", len(sub.orders))
	}
	o := sub.orders[0]
	if o.Type != order.EnterLong || o.Symbol != "ES" || o.Quantity != 10 {
		t.Errorf("unexpected order: %+v", o)
	}
}

func TestTraderEnterLongStopLimitExpiringSetsExpiration(t *testing.T) {
	sub := &recordingSubmitter{}
	tr := Trader{Broker: sub}

	tr.EnterLongStopLimitExpiring("ES", 100, 99, 10, 3)

	if len(sub.orders) != 1 {
		t.Fatalf("orders submitted = %d, want 1", len(sub.orders))
	}
	o := sub.orders[0]
	if o.Type != order.EnterLongStopLimit {
		t.Errorf("Type = %v, want EnterLongStopLimit", o.Type)
	}
	if o.BarsValidFor() != 3 {
		t.Errorf("BarsValidFor() = %d, want 3", o.BarsValidFor())
	}
}

func TestTraderExitShortSubmitsExitOrder(t *testing.T) {
	sub := &recordingSubmitter{}
	tr := Trader{Broker: sub}
	tr.ExitShort("ES", order.PositionQuantity)

	if sub.orders[0].Type != order.ExitShort {
		t.Errorf("Type = %v, want ExitShort", sub.orders[0].Type)
	}
}

func TestNoopStrategySatisfiesInterface(t *testing.T) {
	var _ Strategy = NoopStrategy{}
}
