package metrics

import "time"

// BaselineEvent is emitted once per successful calculation.
type BaselineEvent struct {
	CalculationID string
	SiteHash      string
	Timezone      string
	Baseline      float64
	// Readings is the number of readings returned by the provider after
	// zero-usage entries were dropped; Samples is what survived the filters.
	Readings int
	Samples  int
	StdDev   float64
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Time     time.Time
}

// BaselineSink records calculated baselines for observability purposes.
type BaselineSink interface {
	RecordBaseline(ev BaselineEvent) error
}

// FailureEvent captures a failed calculation.
type FailureEvent struct {
	CalculationID string
	SiteHash      string
	// Kind is one of the baseline.Kind* constants.
	Kind     string
	Error    string
	Duration time.Duration
	Time     time.Time
}

// FailureRecorder records failed calculations.
type FailureRecorder interface {
	RecordFailure(ev FailureEvent) error
}

// StageEvent describes how many readings one filter stage kept.
type StageEvent struct {
	CalculationID string
	SiteHash      string
	Stage         string
	In            int
	Out           int
}

// StageRecorder records per-stage reading counts.
type StageRecorder interface {
	RecordStage(ev StageEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordBaseline(BaselineEvent) error { return nil }
func (NopSink) RecordFailure(FailureEvent) error   { return nil }
func (NopSink) RecordStage(StageEvent) error       { return nil }
