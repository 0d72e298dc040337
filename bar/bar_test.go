package bar

import (
	"math"
	"testing"
	"time"
)

func TestOpenOnlyClearsHighLowClose(t *testing.T) {
	b := Bar{
		Symbol: "ES", Timestamp: time.Now(),
		Open: 100, High: 105, Low: 95, Close: 102,
		Volume: 1000, Interest: 500,
	}

	open := b.OpenOnly()

	if open.Open != b.Open {
		t.Errorf("Open changed: want %v got %v", b.Open, open.Open)
	}
	if !math.IsNaN(open.High) || !math.IsNaN(open.Low) || !math.IsNaN(open.Close) {
		t.Errorf("OpenOnly() did not NaN out High/Low/Close: %+v", open)
	}
	if open.Volume != VolumeInterestSentinel || open.Interest != VolumeInterestSentinel {
		t.Errorf("OpenOnly() did not sentinel Volume/Interest: %+v", open)
	}
	if b.High != 105 {
		t.Errorf("OpenOnly() mutated the receiver's High")
	}
}

func TestSyntheticTicks(t *testing.T) {
	ts := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	b := Bar{Symbol: "CL", Timestamp: ts, Open: 10, High: 12, Low: 9, Close: 11}

	cases := []struct {
		name  string
		tick  Tick
		price float64
		hour  int
	}{
		{"open", OpenTick(b), 10, openHour},
		{"high", HighTick(b), 12, highHour},
		{"low", LowTick(b), 9, lowHour},
		{"close", CloseTick(b), 11, closeHour},
	}

	for _, c := range cases {
		if c.tick.Symbol != "CL" {
			t.Errorf("%s: symbol = %q, want CL", c.name, c.tick.Symbol)
		}
		if c.tick.Price != c.price {
			t.Errorf("%s: price = %v, want %v", c.name, c.tick.Price, c.price)
		}
		y, m, d := c.tick.Timestamp.Date()
		if y != 2024 || m != 3 || d != 15 {
			t.Errorf("%s: date = %v, want 2024-03-15", c.name, c.tick.Timestamp)
		}
		if c.tick.Timestamp.Hour() != c.hour {
			t.Errorf("%s: hour = %d, want %d", c.name, c.tick.Timestamp.Hour(), c.hour)
		}
	}
}

func TestSyntheticTickOrdering(t *testing.T) {
	b := Bar{Symbol: "GC", Timestamp: time.Now(), Open: 1, High: 2, Low: 0.5, Close: 1.5}

	open, high, low, close := OpenTick(b), HighTick(b), LowTick(b), CloseTick(b)
	if !open.Timestamp.Before(high.Timestamp) {
		t.Error("open tick should precede high tick")
	}
	if !high.Timestamp.Before(low.Timestamp) {
		t.Error("high tick should precede low tick")
	}
	if !low.Timestamp.Before(close.Timestamp) {
		t.Error("low tick should precede close tick")
	}
}
