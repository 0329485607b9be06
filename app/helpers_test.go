package app

import (
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

func metricsConfig() coremetrics.Config {
	return coremetrics.Config{Sinks: []factory.ModuleConfig{{Type: "prometheus"}}}
}
