package instrument

import "testing"

func TestVariationPrice(t *testing.T) {
	v := Variation{AltSymbol: "MES", Factor: 10, AltTick: 0.25}
	if got := v.Price(1000); got != 100 {
		t.Errorf("Price(1000) = %v, want 100", got)
	}
}

func TestVariationTickCeilAndFloor(t *testing.T) {
	v := Variation{AltSymbol: "MES", Factor: 1, AltTick: 0.25}
	if got := v.TickCeil(100.1); got != 100.25 {
		t.Errorf("TickCeil(100.1) = %v, want 100.25", got)
	}
	if got := v.TickFloor(100.1); got != 100.0 {
		t.Errorf("TickFloor(100.1) = %v, want 100.0", got)
	}
}
