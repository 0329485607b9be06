package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []BaselineSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...BaselineSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBaseline forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordBaseline(ev BaselineEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordBaseline(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordFailure forwards failures to sinks implementing FailureRecorder.
func (m *MultiSink) RecordFailure(ev FailureEvent) error {
	var first error
	for _, s := range m.Sinks {
		if rec, ok := s.(FailureRecorder); ok {
			if err := rec.RecordFailure(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// RecordStage forwards stage counts to sinks implementing StageRecorder.
func (m *MultiSink) RecordStage(ev StageEvent) error {
	var first error
	for _, s := range m.Sinks {
		if rec, ok := s.(StageRecorder); ok {
			if err := rec.RecordStage(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
