// Package plugins resolves configured module types against the built-in
// providers, filters and result sinks.
package plugins

import (
	"fmt"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

// NewProvider builds the provider selected by cfg.Type.
func NewProvider(cfg factory.ModuleConfig) (provider.Provider, error) {
	p, err := provider.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: provider %s: %w", baseline.ErrConfiguration, cfg.Type, err)
	}
	return p, nil
}

// NewSink combines the configured result sinks.
func NewSink(cfgs []factory.ModuleConfig) (coremetrics.BaselineSink, error) {
	s, err := coremetrics.NewSink(cfgs)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics sinks: %w", baseline.ErrConfiguration, err)
	}
	return s, nil
}

// NewFilters resolves the stage list. An empty list selects the defaults.
func NewFilters(cfgs []factory.ModuleConfig) ([]baseline.Filter, error) {
	return baseline.NewFilters(cfgs)
}

// Types lists every registered module type per kind.
func Types() map[string][]string {
	return map[string][]string{
		"provider": provider.Types(),
		"filter":   baseline.FilterTypes(),
		"sink":     coremetrics.SinkTypes(),
	}
}
