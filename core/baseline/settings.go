package baseline

import (
	"fmt"
	"math"
	"time"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// DefaultConsistencyRatio bounds max/min usage inside a stable run.
const DefaultConsistencyRatio = 1.28

// ClockTime is a local time of day.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("%w: invalid clock time %q", ErrConfiguration, s)
}

// MustParseClock is ParseClock for constants.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	if c.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60 && c.Second >= 0 && c.Second < 60
}

// millis returns the offset from local midnight in milliseconds.
func (c ClockTime) millis() int64 {
	return int64(c.Hour*3600+c.Minute*60+c.Second) * 1000
}

// millisOfDay returns the offset of t from its local midnight, ignoring DST jumps.
func millisOfDay(t time.Time) int64 {
	return int64(t.Hour()*3600+t.Minute()*60+t.Second())*1000 + int64(t.Nanosecond()/int(time.Millisecond))
}

// Settings drives a single calculation. It is passed by value and never
// modified by a stage.
type Settings struct {
	// Timezone is the IANA zone of the site. It is normally resolved from
	// the timezone provider rather than configured.
	Timezone         string
	SleepStart       ClockTime
	SleepEnd         ClockTime
	ConsistencyRatio float64
	Period           string

	loc *time.Location
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Timezone:         "UTC",
		SleepStart:       ClockTime{Hour: 22},
		SleepEnd:         ClockTime{Hour: 6},
		ConsistencyRatio: DefaultConsistencyRatio,
		Period:           model.Period15Min,
		loc:              time.UTC,
	}
}

// WithTimezone returns a copy bound to the named zone.
func (s Settings) WithTimezone(tz string) (Settings, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return s, fmt.Errorf("%w: timezone %q: %v", ErrConfiguration, tz, err)
	}
	s.Timezone = tz
	s.loc = loc
	return s, nil
}

// Location returns the resolved zone. Settings built without WithTimezone
// resolve Timezone lazily and fall back to UTC.
func (s Settings) Location() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Validate checks every field.
func (s Settings) Validate() error {
	if math.IsNaN(s.ConsistencyRatio) || math.IsInf(s.ConsistencyRatio, 0) || s.ConsistencyRatio <= 1 {
		return fmt.Errorf("%w: consistency ratio must be > 1, got %v", ErrConfiguration, s.ConsistencyRatio)
	}
	if s.Period == "" {
		return fmt.Errorf("%w: period is required", ErrConfiguration)
	}
	if !s.SleepStart.valid() || !s.SleepEnd.valid() {
		return fmt.Errorf("%w: invalid sleep window %s-%s", ErrConfiguration, s.SleepStart, s.SleepEnd)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrConfiguration, s.Timezone, err)
		}
	}
	return nil
}
