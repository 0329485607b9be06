// Package provider declares the data sources a calculation depends on.
// Concrete providers live under infra/provider and register themselves by
// type name.
package provider

import (
	"context"
	"time"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// TimezoneProvider resolves the IANA timezone of a site. baseTime is nil when
// the caller did not pin the calculation to a point in time.
type TimezoneProvider interface {
	Timezone(ctx context.Context, siteHash string, baseTime *time.Time) (string, error)
}

// UsageProvider returns interval readings of a site.
type UsageProvider interface {
	Usages(ctx context.Context, siteHash string, q model.UsageQuery) (*model.UsageResponse, error)
}

// Provider is both a TimezoneProvider and a UsageProvider.
type Provider interface {
	TimezoneProvider
	UsageProvider
}

type combined struct {
	TimezoneProvider
	UsageProvider
}

// Combine joins independent timezone and usage sources.
func Combine(tz TimezoneProvider, u UsageProvider) Provider {
	return combined{TimezoneProvider: tz, UsageProvider: u}
}

// StaticTimezone answers every site with the same zone.
type StaticTimezone string

func (s StaticTimezone) Timezone(context.Context, string, *time.Time) (string, error) {
	return string(s), nil
}

// SiteTimezones maps site hashes to zones with a fallback for unknown sites.
type SiteTimezones struct {
	Sites   map[string]string `json:"sites"`
	Default string            `json:"default"`
}

func (s SiteTimezones) Timezone(_ context.Context, siteHash string, _ *time.Time) (string, error) {
	if tz, ok := s.Sites[siteHash]; ok && tz != "" {
		return tz, nil
	}
	if s.Default == "" {
		return "UTC", nil
	}
	return s.Default, nil
}

var registry = factory.NewRegistry[Provider]()

// Register adds a provider factory identified by name.
func Register(name string, f factory.Factory[Provider]) error {
	return registry.Register(name, f)
}

// MustRegister is Register for init blocks.
func MustRegister(name string, f factory.Factory[Provider]) {
	registry.MustRegister(name, f)
}

// New builds the provider described by cfg.
func New(cfg factory.ModuleConfig) (Provider, error) {
	return registry.Create(cfg)
}

// Types lists registered provider types.
func Types() []string { return registry.Names() }
