// Package influx reads site usages from an InfluxDB v2 bucket. Timezones come
// from a static per-site map since the bucket does not carry them.
package influx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

// Type is the provider.type value selecting this package.
const Type = "influx"

// Config describes where usages are stored.
type Config struct {
	URL         string                 `json:"url"`
	Token       string                 `json:"token"`
	Org         string                 `json:"org"`
	Bucket      string                 `json:"bucket"`
	Measurement string                 `json:"measurement"`
	Field       string                 `json:"field"`
	SiteTag     string                 `json:"site_tag"`
	Timezones   provider.SiteTimezones `json:"timezones"`
}

// SetDefaults fills the measurement layout written by the collector.
func (c *Config) SetDefaults() {
	if c.Measurement == "" {
		c.Measurement = "usage"
	}
	if c.Field == "" {
		c.Field = "usage"
	}
	if c.SiteTag == "" {
		c.SiteTag = "site"
	}
}

// Validate checks the connection parameters.
func (c Config) Validate() error {
	if c.URL == "" || c.Org == "" || c.Bucket == "" {
		return fmt.Errorf("%w: influx provider requires url, org and bucket", baseline.ErrConfiguration)
	}
	return nil
}

// UsageProvider queries usages with Flux.
type UsageProvider struct {
	provider.SiteTimezones
	client influxdb2.Client
	query  api.QueryAPI
	cfg    Config
}

// New connects to the configured instance. No request is sent until the first
// query.
func New(cfg Config) (*UsageProvider, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := influxdb2.NewClientWithOptions(strings.TrimRight(cfg.URL, "/"), cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	return &UsageProvider{
		SiteTimezones: cfg.Timezones,
		client:        client,
		query:         client.QueryAPI(cfg.Org),
		cfg:           cfg,
	}, nil
}

// Close releases the client.
func (p *UsageProvider) Close() { p.client.Close() }

// Usages aggregates the stored usage into q.Period buckets over [q.Start, q.End).
func (p *UsageProvider) Usages(ctx context.Context, siteHash string, q model.UsageQuery) (*model.UsageResponse, error) {
	flux, err := p.buildQuery(siteHash, q)
	if err != nil {
		return nil, err
	}
	res, err := p.query.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	defer res.Close()

	items := make([]model.Reading, 0)
	for res.Next() {
		rec := res.Record()
		v, ok := toFloat(rec.Value())
		if !ok {
			continue
		}
		items = append(items, model.Reading{Timestamp: rec.Time().UnixMilli(), Usage: v})
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("influx result: %w", err)
	}
	return &model.UsageResponse{Items: items}, nil
}

func (p *UsageProvider) buildQuery(siteHash string, q model.UsageQuery) (string, error) {
	every, err := fluxDuration(q.Period)
	if err != nil {
		return "", err
	}
	// aggregateWindow stamps each bucket with its stop time; timeSrc keeps the
	// bucket start so readings line up with the API's periodic usages.
	return fmt.Sprintf(`from(bucket: %s)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %s and r._field == %s and r[%s] == %s)
  |> aggregateWindow(every: %s, fn: sum, timeSrc: "_start", createEmpty: false)
  |> sort(columns: ["_time"])`,
		strconv.Quote(p.cfg.Bucket),
		time.UnixMilli(q.Start).UTC().Format(time.RFC3339Nano),
		time.UnixMilli(q.End).UTC().Format(time.RFC3339Nano),
		strconv.Quote(p.cfg.Measurement),
		strconv.Quote(p.cfg.Field),
		strconv.Quote(p.cfg.SiteTag),
		strconv.Quote(siteHash),
		every,
	), nil
}

// fluxDuration maps API period names such as "15min" or "1hour" to Flux
// duration literals.
func fluxDuration(period string) (string, error) {
	units := []struct{ suffix, unit string }{
		{"min", "m"},
		{"hour", "h"},
		{"day", "d"},
	}
	for _, u := range units {
		if n, ok := strings.CutSuffix(period, u.suffix); ok {
			if n == "" {
				n = "1"
			}
			v, err := strconv.Atoi(n)
			if err != nil || v <= 0 {
				break
			}
			return strconv.Itoa(v) + u.unit, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported period %q", baseline.ErrConfiguration, period)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func init() {
	provider.MustRegister(Type, func(conf map[string]any) (provider.Provider, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return New(cfg)
	})
}
