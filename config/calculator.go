package config

import (
	"fmt"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
)

// CalculatorConfig holds the default settings and stage list of the calculator.
type CalculatorConfig struct {
	SleepStart       string  `json:"sleep_start"`
	SleepEnd         string  `json:"sleep_end"`
	ConsistencyRatio float64 `json:"consistency_ratio"`
	Period           string  `json:"period"`
	LookbackMonths   int     `json:"lookback_months"`
	// Filters replaces the default stage list when non-empty.
	Filters []factory.ModuleConfig `json:"filters"`
}

// SetDefaults applies the calculator defaults.
func (c *CalculatorConfig) SetDefaults() {
	d := baseline.DefaultSettings()
	if c.SleepStart == "" {
		c.SleepStart = d.SleepStart.String()
	}
	if c.SleepEnd == "" {
		c.SleepEnd = d.SleepEnd.String()
	}
	if c.ConsistencyRatio == 0 {
		c.ConsistencyRatio = d.ConsistencyRatio
	}
	if c.Period == "" {
		c.Period = d.Period
	}
	if c.LookbackMonths == 0 {
		c.LookbackMonths = baseline.DefaultLookbackMonths
	}
}

// Validate checks the values through Settings.
func (c CalculatorConfig) Validate() error {
	if c.LookbackMonths < 1 {
		return fmt.Errorf("lookback_months must be >= 1, got %d", c.LookbackMonths)
	}
	_, err := c.Settings()
	return err
}

// Settings converts the section into calculator settings.
func (c CalculatorConfig) Settings() (baseline.Settings, error) {
	s := baseline.DefaultSettings()
	var err error
	if s.SleepStart, err = baseline.ParseClock(c.SleepStart); err != nil {
		return s, fmt.Errorf("sleep_start: %w", err)
	}
	if s.SleepEnd, err = baseline.ParseClock(c.SleepEnd); err != nil {
		return s, fmt.Errorf("sleep_end: %w", err)
	}
	s.ConsistencyRatio = c.ConsistencyRatio
	s.Period = c.Period
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
