package baseline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

func TestConsistencyFilter(t *testing.T) {
	items := []model.Reading{
		{Timestamp: 1, Usage: 1000},
		{Timestamp: 2, Usage: 2000},
		{Timestamp: 3, Usage: 4000},
		{Timestamp: 3, Usage: 4500},
		{Timestamp: 5, Usage: 4990},
		{Timestamp: 6, Usage: 5500},
		{Timestamp: 7, Usage: 6000},
	}
	got := ConsistencyFilter{}.Apply(items, DefaultSettings())
	assert.Equal(t, []model.Reading{
		{Timestamp: 3, Usage: 4000},
		{Timestamp: 3, Usage: 4500},
		{Timestamp: 5, Usage: 4990},
	}, got)
}

func TestConsistencyFilterRetainsLongRun(t *testing.T) {
	items := series(1000, 2000, 4000, 4100, 4290, 3900, 4990, 6000)
	got := ConsistencyFilter{}.Apply(items, DefaultSettings())
	assert.Equal(t, items[2:7], got)
}

func TestConsistencyFilterKeepsRunAtTheEnd(t *testing.T) {
	items := series(1000, 2000, 4000, 5500, 7090, 7100, 7290, 8000)
	got := ConsistencyFilter{}.Apply(items, DefaultSettings())
	assert.Equal(t, items[4:], got)
}

func TestConsistencyFilterPrefersLaterDisjointRun(t *testing.T) {
	items := series(100, 101, 500, 900, 901)
	got := ConsistencyFilter{}.Apply(items, DefaultSettings())
	assert.Equal(t, items[3:], got)
}

func TestConsistencyFilterEdgeCases(t *testing.T) {
	s := DefaultSettings()
	assert.Empty(t, ConsistencyFilter{}.Apply(nil, s))
	assert.Empty(t, ConsistencyFilter{}.Apply([]model.Reading{}, s))

	one := series(42)
	assert.Equal(t, one, ConsistencyFilter{}.Apply(one, s))

	// every step doubles, so no run longer than one exists; the latest wins
	jumps := series(1, 2, 4, 8)
	assert.Equal(t, jumps[3:], ConsistencyFilter{}.Apply(jumps, s))

	rising := series(100, 110, 120, 130, 140, 150)
	got := ConsistencyFilter{}.Apply(rising, s)
	// 130/100 exceeds the ratio, the window slides to 110..140 and 150/110
	// exceeds it again, so 110..140 is the longest run.
	assert.Equal(t, rising[1:5], got)
}

func TestConsistencyFilterRatioOverride(t *testing.T) {
	items := series(100, 140, 150, 400)
	assert.Len(t, ConsistencyFilter{}.Apply(items, DefaultSettings()), 2)
	assert.Len(t, ConsistencyFilter{Ratio: 1.5}.Apply(items, DefaultSettings()), 3)
}

// Every returned run respects the ratio and no longer valid run exists.
func TestLongestStableRunProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 300; iter++ {
		n := rng.Intn(40) + 1
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(rng.Intn(50) + 50)
		}
		ratio := 1.05 + rng.Float64()*0.5

		start, end := LongestStableRun(values, ratio)
		require.Less(t, start, end)
		run := values[start:end]
		require.LessOrEqual(t, floats.Max(run), ratio*floats.Min(run), "values %v ratio %v", values, ratio)

		best := 0
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				w := values[i : j+1]
				if floats.Max(w) <= ratio*floats.Min(w) && len(w) > best {
					best = len(w)
				}
			}
		}
		require.Equal(t, best, end-start, "values %v ratio %v", values, ratio)
	}
}

func TestLongestStableRunLinearOnMonth(t *testing.T) {
	values := make([]float64, 2976)
	for i := range values {
		values[i] = 300 + float64(i%7)
	}
	start, end := LongestStableRun(values, DefaultConsistencyRatio)
	assert.Equal(t, 0, start)
	assert.Equal(t, len(values), end)
}
