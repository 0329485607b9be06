package config

import (
	"fmt"
	"time"
)

// ServerConfig configures `alwayson serve`.
type ServerConfig struct {
	// Address serves the API and, unless MetricsAddress is set, /metrics.
	Address        string `json:"address"`
	MetricsAddress string `json:"metrics_address"`
	// Sites are recalculated every RefreshInterval so their gauges stay
	// current. A zero interval disables the refresh loop.
	Sites           []string      `json:"sites"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	RequestTimeout  time.Duration `json:"request_timeout"`
}

// SetDefaults applies listen and timeout defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

// Validate checks the refresh loop parameters.
func (c ServerConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}
	if c.RefreshInterval > 0 && len(c.Sites) == 0 {
		return fmt.Errorf("refresh_interval requires at least one site")
	}
	return nil
}
