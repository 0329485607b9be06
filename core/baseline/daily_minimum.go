package baseline

import (
	"sort"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// DailyMinimumFilter keeps the lowest reading of every local calendar day.
// The earliest reading wins ties.
type DailyMinimumFilter struct{}

func (DailyMinimumFilter) Name() string { return "daily_minimum" }

func (DailyMinimumFilter) Apply(readings []model.Reading, s Settings) []model.Reading {
	loc := s.Location()
	type day struct {
		key  int
		best int
	}
	var days []day
	index := make(map[int]int)
	for i, r := range readings {
		t := r.Time(loc)
		key := t.Year()*10000 + int(t.Month())*100 + t.Day()
		p, ok := index[key]
		if !ok {
			index[key] = len(days)
			days = append(days, day{key: key, best: i})
			continue
		}
		if r.Usage < readings[days[p].best].Usage {
			days[p].best = i
		}
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].key < days[j].key })
	out := make([]model.Reading, len(days))
	for i, d := range days {
		out[i] = readings[d.best]
	}
	return out
}
