package model

import "time"

// Reading is one interval meter sample. Timestamp is in epoch milliseconds and
// Usage is the energy consumed during the interval.
type Reading struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Usage     float64 `json:"usage" yaml:"usage"`
}

// Time returns the reading instant in the given location. A nil location means UTC.
func (r Reading) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(r.Timestamp).In(loc)
}

// Usages extracts the usage values in order.
func Usages(readings []Reading) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = r.Usage
	}
	return out
}

// CloneReadings returns a copy of the slice. The result is never nil.
func CloneReadings(readings []Reading) []Reading {
	out := make([]Reading, len(readings))
	copy(out, readings)
	return out
}
