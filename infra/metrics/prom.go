package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

// PromSink exposes calculation results as Prometheus metrics.
type PromSink struct {
	baseline *prometheus.GaugeVec
	samples  *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	stages   *prometheus.GaugeVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already present on reg are reused so several sinks can share one registry.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	baseline, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "alwayson_baseline_watts",
		Help: "Last always-on baseline calculated for a site",
	}, []string{"site"}))
	if err != nil {
		return nil, err
	}
	samples, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "alwayson_samples",
		Help: "Readings kept by the filter stages in the last calculation of a site",
	}, []string{"site"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alwayson_calculation_seconds",
		Help:    "Duration of baseline calculations",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alwayson_calculation_failures_total",
		Help: "Failed baseline calculations by failure kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	stages, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "alwayson_stage_readings",
		Help: "Readings returned by a filter stage in the last calculation",
	}, []string{"stage"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{baseline: baseline, samples: samples, duration: duration, failures: failures, stages: stages}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBaseline sets the per-site gauges and observes the duration.
func (s *PromSink) RecordBaseline(ev coremetrics.BaselineEvent) error {
	s.baseline.WithLabelValues(ev.SiteHash).Set(ev.Baseline)
	s.samples.WithLabelValues(ev.SiteHash).Set(float64(ev.Samples))
	s.duration.WithLabelValues("success").Observe(ev.Duration.Seconds())
	return nil
}

// RecordFailure counts the failure by kind.
func (s *PromSink) RecordFailure(ev coremetrics.FailureEvent) error {
	s.failures.WithLabelValues(ev.Kind).Inc()
	s.duration.WithLabelValues("failure").Observe(ev.Duration.Seconds())
	return nil
}

// RecordStage keeps the output size of the stage.
func (s *PromSink) RecordStage(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Set(float64(ev.Out))
	return nil
}
