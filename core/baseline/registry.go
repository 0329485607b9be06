package baseline

import (
	"fmt"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
)

var filterRegistry = factory.NewRegistry[Filter]()

func init() {
	filterRegistry.MustRegister("daily_minimum", func(map[string]any) (Filter, error) {
		return DailyMinimumFilter{}, nil
	})
	filterRegistry.MustRegister("sleep_window", func(map[string]any) (Filter, error) {
		return SleepWindowFilter{}, nil
	})
	filterRegistry.MustRegister("consistency", func(conf map[string]any) (Filter, error) {
		var f ConsistencyFilter
		if err := factory.Decode(conf, &f); err != nil {
			return nil, err
		}
		if f.Ratio != 0 && f.Ratio <= 1 {
			return nil, fmt.Errorf("consistency ratio must be > 1, got %v", f.Ratio)
		}
		return f, nil
	})
}

// RegisterFilter makes a custom stage available to configuration.
func RegisterFilter(name string, f factory.Factory[Filter]) error {
	return filterRegistry.Register(name, f)
}

// FilterTypes lists the stage names usable in configuration.
func FilterTypes() []string { return filterRegistry.Names() }

// NewFilters builds a stage list from configuration. An empty list yields
// DefaultFilters.
func NewFilters(cfgs []factory.ModuleConfig) ([]Filter, error) {
	if len(cfgs) == 0 {
		return DefaultFilters(), nil
	}
	filters, err := filterRegistry.CreateAll(cfgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return filters, nil
}
