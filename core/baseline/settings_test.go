package baseline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("22:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 22}, c)
	assert.Equal(t, "22:00", c.String())

	c, err = ParseClock("05:59:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 5, Minute: 59, Second: 30}, c)
	assert.Equal(t, "05:59:30", c.String())

	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = ParseClock("tonight")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Panics(t, func() { MustParseClock("x") })
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.ConsistencyRatio = 1
	assert.ErrorIs(t, s.Validate(), ErrConfiguration)

	s = DefaultSettings()
	s.Period = ""
	assert.ErrorIs(t, s.Validate(), ErrConfiguration)

	s = DefaultSettings()
	s.SleepEnd = ClockTime{Hour: 24}
	assert.ErrorIs(t, s.Validate(), ErrConfiguration)

	s = DefaultSettings()
	s.Timezone = "Mars/Olympus"
	assert.ErrorIs(t, s.Validate(), ErrConfiguration)
}

func TestSettingsTimezone(t *testing.T) {
	s, err := DefaultSettings().WithTimezone("US/Pacific")
	require.NoError(t, err)
	assert.Equal(t, "US/Pacific", s.Location().String())

	_, err = DefaultSettings().WithTimezone("Nowhere/Land")
	assert.ErrorIs(t, err, ErrConfiguration)

	lazy := Settings{Timezone: "Asia/Seoul"}
	assert.Equal(t, "Asia/Seoul", lazy.Location().String())
	assert.Equal(t, time.UTC, Settings{}.Location())
}
