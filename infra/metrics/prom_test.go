package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordBaseline(coremetrics.BaselineEvent{
		SiteHash: "abc", Baseline: 301.5, Samples: 31, Duration: 20 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordFailure(coremetrics.FailureEvent{SiteHash: "abc", Kind: "no_data"}))
	require.NoError(t, sink.RecordFailure(coremetrics.FailureEvent{SiteHash: "abc", Kind: "no_data"}))
	require.NoError(t, sink.RecordStage(coremetrics.StageEvent{Stage: "daily_minimum", In: 2976, Out: 31}))

	assert.Equal(t, 301.5, testutil.ToFloat64(sink.baseline.WithLabelValues("abc")))
	assert.Equal(t, 31.0, testutil.ToFloat64(sink.samples.WithLabelValues("abc")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.failures.WithLabelValues("no_data")))
	assert.Equal(t, 31.0, testutil.ToFloat64(sink.stages.WithLabelValues("daily_minimum")))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration))
}

func TestPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordBaseline(coremetrics.BaselineEvent{SiteHash: "abc", Baseline: 12}))
	assert.Equal(t, 12.0, testutil.ToFloat64(second.baseline.WithLabelValues("abc")))
}
