// Package history keeps the bounded gating-voltage time series shown on the
// voltage chart.
package history

import (
	"fmt"
	"math"

	"antipop/internal/circuit"
)

// DefaultCapacity is the number of samples the chart keeps.
const DefaultCapacity = 50

// Sample is one point of the voltage chart.
type Sample struct {
	Time    float64 `json:"time"`    // seconds, one decimal place
	Voltage float64 `json:"voltage"` // gating voltage in volts
}

// SampleOf derives the chart point for a circuit state. Time is rounded to
// one decimal place so consecutive ticks share an axis label.
func SampleOf(s circuit.State) Sample {
	return Sample{
		Time:    math.Round(s.TimeElapsed*10) / 10,
		Voltage: s.GatingVoltage,
	}
}

// Series is an immutable, bounded, chronologically ordered list of samples.
// Append and Reset return new values; a Series handed to a reader never
// changes underneath it.
type Series struct {
	capacity int
	samples  []Sample
}

// NewSeries returns an empty series holding at most capacity samples.
// A non-positive capacity falls back to DefaultCapacity.
func NewSeries(capacity int) Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Series{capacity: capacity}
}

// Append returns a series with sample added at the end, evicting the oldest
// samples beyond capacity.
func (s Series) Append(sample Sample) Series {
	capacity := s.Capacity()
	keep := s.samples
	if len(keep) >= capacity {
		keep = keep[len(keep)-capacity+1:]
	}
	next := make([]Sample, len(keep), len(keep)+1)
	copy(next, keep)
	next = append(next, sample)
	return Series{capacity: capacity, samples: next}
}

// Reset returns an empty series with the same capacity.
func (s Series) Reset() Series {
	return Series{capacity: s.Capacity()}
}

// Samples returns a copy of the samples, oldest first.
func (s Series) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len is the number of stored samples.
func (s Series) Len() int { return len(s.samples) }

// Capacity is the maximum number of stored samples.
func (s Series) Capacity() int {
	if s.capacity <= 0 {
		return DefaultCapacity
	}
	return s.capacity
}

// Last returns the newest sample.
func (s Series) Last() (Sample, bool) {
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// Policy decides when a new tick produces a sample.
type Policy string

const (
	// EveryTick records one sample per tick.
	EveryTick Policy = "every_tick"
	// OnChange records a sample only when the gating voltage moved since the
	// last recorded sample (or the series is empty).
	OnChange Policy = "on_change"
)

// ParsePolicy accepts the config spelling of a policy; empty means EveryTick.
func ParsePolicy(v string) (Policy, error) {
	switch Policy(v) {
	case "", EveryTick:
		return EveryTick, nil
	case OnChange:
		return OnChange, nil
	}
	return "", fmt.Errorf("unknown sample policy %q (want %s or %s)", v, EveryTick, OnChange)
}

// Record applies the policy and returns the series after observing state.
func (p Policy) Record(s Series, state circuit.State) Series {
	sample := SampleOf(state)
	if p == OnChange {
		if last, ok := s.Last(); ok && last.Voltage == sample.Voltage {
			return s
		}
	}
	return s.Append(sample)
}
