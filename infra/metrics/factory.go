package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

// init registers built-in result sinks.
func init() {
	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.BaselineSink, error) {
		// The /metrics endpoint is served separately, see StartPromServer.
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.BaselineSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
