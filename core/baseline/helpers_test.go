package baseline

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// at returns the epoch milliseconds of a "2006-01-02 15:04" wall clock in tz.
func at(t *testing.T, tz, wall string) int64 {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load %s: %v", tz, err)
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", wall, loc)
	if err != nil {
		t.Fatalf("parse %s: %v", wall, err)
	}
	return ts.UnixMilli()
}

func settingsIn(t *testing.T, tz string) Settings {
	t.Helper()
	s, err := DefaultSettings().WithTimezone(tz)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	return s
}

// series builds readings with timestamps 1..n.
func series(usages ...float64) []model.Reading {
	out := make([]model.Reading, len(usages))
	for i, u := range usages {
		out[i] = model.Reading{Timestamp: int64(i + 1), Usage: u}
	}
	return out
}
