// Package stats provides the online accumulators the portfolio package uses
// to summarize trade and daily PnL series without retaining every sample.
package stats

import "math"

// Average is a one-pass running mean (Welford), ported from
// original_source's Indicators.h Average class.
type Average struct {
	mean float64
	size uint64
}

// Add folds v into the running mean.
func (a *Average) Add(v float64) {
	a.size++
	if a.size > 1 {
		a.mean += (v - a.mean) / float64(a.size)
	} else {
		a.mean = v
	}
}

// Get returns the current mean, or 0 if no samples have been added.
func (a *Average) Get() float64 { return a.mean }

// Size returns the number of samples folded in.
func (a *Average) Size() uint64 { return a.size }

// AverageAndVariance is a one-pass running mean and sample variance
// (Welford), ported from original_source's Indicators.h
// AverageAndVariance class. Unlike a two-pass mean/stddev computation, this
// never re-reads the sample series, which matters because the portfolio
// package folds daily PnL incrementally as the replay advances.
type AverageAndVariance struct {
	mean     float64
	variance float64
	size     uint64
}

// Add folds v into the running mean and variance accumulator.
func (a *AverageAndVariance) Add(v float64) {
	a.size++
	if a.size > 1 {
		n := float64(a.size)
		newMean := a.mean + (v-a.mean)/n
		newVariance := a.variance + (v-a.mean)*(v-newMean)
		a.mean = newMean
		a.variance = newVariance
	} else {
		a.mean = v
		a.variance = 0
	}
}

// GetAverage returns the current mean.
func (a *AverageAndVariance) GetAverage() float64 { return a.mean }

// GetVariance returns the sample variance (N-1 denominator) once at least
// two samples have been added; the single-sample case returns the raw
// (zero) accumulator rather than dividing by zero, matching
// original_source's switch on size().
func (a *AverageAndVariance) GetVariance() float64 {
	switch a.size {
	case 0:
		return 0
	case 1:
		return a.variance
	default:
		return a.variance / float64(a.size-1)
	}
}

// GetStdDev returns the sample standard deviation.
func (a *AverageAndVariance) GetStdDev() float64 { return math.Sqrt(a.GetVariance()) }

// Size returns the number of samples folded in.
func (a *AverageAndVariance) Size() uint64 { return a.size }
