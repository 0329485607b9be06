package baseline

import "github.com/songpengyi/enertalk-alwayson-calculator/core/model"

// SleepWindowFilter keeps readings whose local clock time lies strictly inside
// the sleep window. A window whose start is after its end wraps midnight.
type SleepWindowFilter struct{}

func (SleepWindowFilter) Name() string { return "sleep_window" }

func (SleepWindowFilter) Apply(readings []model.Reading, s Settings) []model.Reading {
	loc := s.Location()
	start, end := s.SleepStart.millis(), s.SleepEnd.millis()
	out := make([]model.Reading, 0, len(readings))
	for _, r := range readings {
		if inSleepWindow(millisOfDay(r.Time(loc)), start, end) {
			out = append(out, r)
		}
	}
	return out
}

func inSleepWindow(at, start, end int64) bool {
	if start < end {
		return at > start && at < end
	}
	return at > start || at < end
}
