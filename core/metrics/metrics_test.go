package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
)

type recordSink struct {
	baselines []BaselineEvent
	failures  []FailureEvent
	err       error
}

func (r *recordSink) RecordBaseline(ev BaselineEvent) error {
	r.baselines = append(r.baselines, ev)
	return r.err
}

func (r *recordSink) RecordFailure(ev FailureEvent) error {
	r.failures = append(r.failures, ev)
	return r.err
}

type baselineOnly struct{ n int }

func (b *baselineOnly) RecordBaseline(BaselineEvent) error { b.n++; return nil }

func TestMultiSinkFanOut(t *testing.T) {
	failing := &recordSink{err: errors.New("boom")}
	ok := &recordSink{}
	plain := &baselineOnly{}
	m := NewMultiSink(failing, ok, plain)

	err := m.RecordBaseline(BaselineEvent{SiteHash: "s"})
	assert.EqualError(t, err, "boom")
	assert.Len(t, ok.baselines, 1, "later sinks still receive the event")
	assert.Equal(t, 1, plain.n)

	err = m.RecordFailure(FailureEvent{Kind: "validation"})
	assert.Error(t, err)
	assert.Len(t, ok.failures, 1)

	assert.NoError(t, m.RecordStage(StageEvent{Stage: "x"}))
}

func TestNewSink(t *testing.T) {
	s, err := NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	require.NoError(t, err)
	multi, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, multi.Sinks, 2)

	_, err = NewSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "missing"}})
	assert.ErrorIs(t, err, factory.ErrUnknownType)
}
