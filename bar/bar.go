// Package bar models OHLC bars, the synthetic intra-bar ticks derived from
// them, and the bar-feed abstraction the replay broker consumes.
package bar

import (
	"math"
	"time"
)

// Bar is one OHLCV summary for one symbol over one time window. On
// non-sentinel bars, Low <= Open <= High and Low <= Close <= High.
// A bar synthesized for the bar-open event (spec §4.2 step 4) has NaN
// High/Low/Close and sentinel Volume/Interest — callers must only inspect
// Open on such a bar.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Interest  int64
	Timespan  time.Duration
	IsLast    bool // true on the final bar of an exhausted stream
}

// VolumeInterestSentinel marks an unknown/not-applicable volume or open
// interest field, matching original_source's ULONG_MAX convention.
const VolumeInterestSentinel int64 = math.MaxInt64

// OpenOnly returns a copy of b suitable for the bar-open event: High, Low,
// and Close are replaced with NaN, Volume/Interest with the sentinel, so a
// strategy that inadvertently reads them gets an unmistakable NaN rather
// than a stale prior value.
func (b Bar) OpenOnly() Bar {
	open := b
	open.High = math.NaN()
	open.Low = math.NaN()
	open.Close = math.NaN()
	open.Volume = VolumeInterestSentinel
	open.Interest = VolumeInterestSentinel
	return open
}

// Tick is a synthetic intra-bar price event: open, high, low, or close,
// each stamped with a fixed time of day on the bar's date (spec §4.2).
type Tick struct {
	Symbol    string
	Timestamp time.Time
	Price     float64
}

// Time-of-day offsets for the four synthetic ticks, applied to the bar's
// calendar date in its own location.
const (
	openHour, openMinute, openSecond   = 9, 0, 1
	highHour, highMinute, highSecond   = 11, 0, 1
	lowHour, lowMinute, lowSecond      = 13, 0, 1
	closeHour, closeMinute, closeSecond = 16, 0, 1
)

func tickTime(bar time.Time, hour, minute, second int) time.Time {
	y, m, d := bar.Date()
	return time.Date(y, m, d, hour, minute, second, 0, bar.Location())
}

// OpenTick builds the synthetic open-price tick for bar.
func OpenTick(b Bar) Tick {
	return Tick{Symbol: b.Symbol, Timestamp: tickTime(b.Timestamp, openHour, openMinute, openSecond), Price: b.Open}
}

// HighTick builds the synthetic high-price tick for bar.
func HighTick(b Bar) Tick {
	return Tick{Symbol: b.Symbol, Timestamp: tickTime(b.Timestamp, highHour, highMinute, highSecond), Price: b.High}
}

// LowTick builds the synthetic low-price tick for bar.
func LowTick(b Bar) Tick {
	return Tick{Symbol: b.Symbol, Timestamp: tickTime(b.Timestamp, lowHour, lowMinute, lowSecond), Price: b.Low}
}

// CloseTick builds the synthetic close-price tick for bar.
func CloseTick(b Bar) Tick {
	return Tick{Symbol: b.Symbol, Timestamp: tickTime(b.Timestamp, closeHour, closeMinute, closeSecond), Price: b.Close}
}
