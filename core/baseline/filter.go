package baseline

import (
	"fmt"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// Filter is one pipeline stage. Implementations return an ordered subsequence
// of readings and must not reorder or duplicate elements.
type Filter interface {
	Apply(readings []model.Reading, s Settings) []model.Reading
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(readings []model.Reading, s Settings) []model.Reading

// Apply calls f.
func (f FilterFunc) Apply(readings []model.Reading, s Settings) []model.Reading {
	return f(readings, s)
}

// Named is implemented by stages that report a stable name for logs and metrics.
type Named interface {
	Name() string
}

// FilterName returns the stage name, falling back to its Go type.
func FilterName(f Filter) string {
	if n, ok := f.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}

// DefaultFilters returns a fresh copy of the built-in stage list.
func DefaultFilters() []Filter {
	return []Filter{DailyMinimumFilter{}, SleepWindowFilter{}, ConsistencyFilter{}}
}

// wrappedFilter gives every stage the same calling convention: a private copy
// of its input and a non-nil result.
type wrappedFilter struct {
	inner Filter
}

func (w wrappedFilter) Apply(readings []model.Reading, s Settings) []model.Reading {
	out := w.inner.Apply(model.CloneReadings(readings), s)
	if out == nil {
		return []model.Reading{}
	}
	return out
}

func (w wrappedFilter) Name() string { return FilterName(w.inner) }

func wrapFilter(f Filter) (Filter, error) {
	switch v := f.(type) {
	case nil:
		return nil, fmt.Errorf("%w: filter is nil", ErrConfiguration)
	case FilterFunc:
		if v == nil {
			return nil, fmt.Errorf("%w: filter func is nil", ErrConfiguration)
		}
	case wrappedFilter:
		return v, nil
	}
	return wrappedFilter{inner: f}, nil
}

// wrapFilters validates and wraps every element. Nothing is returned unless
// all elements are valid.
func wrapFilters(filters []Filter) ([]Filter, error) {
	if filters == nil {
		return nil, fmt.Errorf("%w: filter list is required", ErrConfiguration)
	}
	out := make([]Filter, len(filters))
	for i, f := range filters {
		w, err := wrapFilter(f)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}

// ApplyFilters folds filters left to right over readings.
func ApplyFilters(filters []Filter, readings []model.Reading, s Settings) ([]model.Reading, error) {
	wrapped, err := wrapFilters(filters)
	if err != nil {
		return nil, err
	}
	return fold(wrapped, readings, s, nil), nil
}

// fold expects already wrapped filters. trace, when set, is called after each stage.
func fold(filters []Filter, readings []model.Reading, s Settings, trace func(name string, in, out int)) []model.Reading {
	cur := readings
	for _, f := range filters {
		next := f.Apply(cur, s)
		if trace != nil {
			trace(FilterName(f), len(cur), len(next))
		}
		cur = next
	}
	return cur
}
