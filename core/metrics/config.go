package metrics

import "github.com/songpengyi/enertalk-alwayson-calculator/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
