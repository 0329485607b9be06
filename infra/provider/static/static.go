// Package static serves usages from memory or a JSON or YAML fixture file.
package static

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

// Type is the provider.type value selecting this package.
const Type = "static"

// Site is the fixture entry of one site.
type Site struct {
	Timezone string          `json:"timezone" yaml:"timezone"`
	Items    []model.Reading `json:"items" yaml:"items"`
}

// Fixture is the on-disk layout: {"sites": {"<hash>": {...}}}.
type Fixture struct {
	Sites map[string]Site `json:"sites" yaml:"sites"`
}

// Config points at a fixture file.
type Config struct {
	Path string `json:"path"`
}

// ErrUnknownSite is returned for site hashes absent from the fixture.
type ErrUnknownSite struct {
	SiteHash string
}

func (e *ErrUnknownSite) Error() string { return fmt.Sprintf("unknown site %q", e.SiteHash) }

// Provider is an in-memory provider.Provider.
type Provider struct {
	mu    sync.RWMutex
	sites map[string]Site
}

// New returns an empty provider.
func New() *Provider {
	return &Provider{sites: make(map[string]Site)}
}

// Load reads a fixture file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fx)
	default:
		err = json.Unmarshal(data, &fx)
	}
	if err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	p := New()
	for hash, s := range fx.Sites {
		p.Put(hash, s)
	}
	return p, nil
}

// Put stores or replaces a site.
func (p *Provider) Put(siteHash string, s Site) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sites[siteHash] = Site{Timezone: s.Timezone, Items: model.CloneReadings(s.Items)}
}

func (p *Provider) site(siteHash string) (Site, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sites[siteHash]
	if !ok {
		return Site{}, &ErrUnknownSite{SiteHash: siteHash}
	}
	return s, nil
}

// Timezone returns the stored zone, UTC when the entry has none.
func (p *Provider) Timezone(_ context.Context, siteHash string, _ *time.Time) (string, error) {
	s, err := p.site(siteHash)
	if err != nil {
		return "", err
	}
	if s.Timezone == "" {
		return "UTC", nil
	}
	return s.Timezone, nil
}

// Usages returns the stored readings with q.Start <= timestamp < q.End. A zero
// End leaves the range open.
func (p *Provider) Usages(_ context.Context, siteHash string, q model.UsageQuery) (*model.UsageResponse, error) {
	s, err := p.site(siteHash)
	if err != nil {
		return nil, err
	}
	items := make([]model.Reading, 0, len(s.Items))
	for _, r := range s.Items {
		if r.Timestamp < q.Start || (q.End != 0 && r.Timestamp >= q.End) {
			continue
		}
		items = append(items, r)
	}
	return &model.UsageResponse{Items: items}, nil
}

func init() {
	provider.MustRegister(Type, func(conf map[string]any) (provider.Provider, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		if cfg.Path == "" {
			return New(), nil
		}
		return Load(cfg.Path)
	})
}
