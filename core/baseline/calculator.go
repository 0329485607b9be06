package baseline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/logger"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/monitoring"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

// DefaultLookbackMonths is the analysed history ending at the base day.
const DefaultLookbackMonths = 1

// Request identifies the site and the point in time of a calculation.
type Request struct {
	SiteHash string
	// BaseTime defaults to now.
	BaseTime *time.Time
	// Settings replaces the calculator defaults for this call. Its timezone
	// is always overwritten by the provider answer.
	Settings *Settings
}

// Result is the outcome of a successful calculation.
type Result struct {
	ID       string          `json:"id"`
	SiteHash string          `json:"site_hash"`
	Timezone string          `json:"timezone"`
	Baseline float64         `json:"baseline"`
	Summary  Summary         `json:"summary"`
	Readings int             `json:"readings"`
	Samples  []model.Reading `json:"samples"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
}

// Option customises a Calculator.
type Option func(*Calculator) error

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

// WithSink reports results and failures to s.
func WithSink(s metrics.BaselineSink) Option {
	return func(c *Calculator) error {
		if s != nil {
			c.sink = s
		}
		return nil
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(c *Calculator) error {
		if err := s.Validate(); err != nil {
			return err
		}
		c.settings = s
		return nil
	}
}

// WithFilters replaces the default stage list.
func WithFilters(filters []Filter) Option {
	return func(c *Calculator) error {
		wrapped, err := wrapFilters(filters)
		if err != nil {
			return err
		}
		c.filters = wrapped
		return nil
	}
}

// WithLookbackMonths sets how many months of history are requested.
func WithLookbackMonths(n int) Option {
	return func(c *Calculator) error {
		if n < 1 {
			return fmt.Errorf("%w: lookback months must be >= 1, got %d", ErrConfiguration, n)
		}
		c.lookbackMonths = n
		return nil
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) error {
		if now != nil {
			c.now = now
		}
		return nil
	}
}

// Calculator runs the baseline pipeline for one site at a time. It is safe
// for concurrent use.
type Calculator struct {
	provider       provider.Provider
	log            logger.Logger
	sink           metrics.BaselineSink
	settings       Settings
	lookbackMonths int
	now            func() time.Time

	mu      sync.RWMutex
	filters []Filter
}

// New builds a Calculator reading from p with the default stage list.
func New(p provider.Provider, opts ...Option) (*Calculator, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	defaults, err := wrapFilters(DefaultFilters())
	if err != nil {
		return nil, err
	}
	c := &Calculator{
		provider:       p,
		log:            logger.Nop{},
		sink:           metrics.NopSink{},
		settings:       DefaultSettings(),
		lookbackMonths: DefaultLookbackMonths,
		now:            time.Now,
		filters:        defaults,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Settings returns the default settings used when a request carries none.
func (c *Calculator) Settings() Settings { return c.settings }

// Filters returns a copy of the configured stage list.
func (c *Calculator) Filters() []Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// SetFilters replaces the whole stage list. On error the current list is kept.
func (c *Calculator) SetFilters(filters []Filter) error {
	wrapped, err := wrapFilters(filters)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.filters = wrapped
	c.mu.Unlock()
	c.log.Infof("filters replaced: %s", strings.Join(filterNames(wrapped), ","))
	return nil
}

// Calculate resolves the site timezone, fetches its usages for the lookback
// window and returns the mean of the readings surviving every stage.
func (c *Calculator) Calculate(ctx context.Context, req Request) (Result, error) {
	id := uuid.NewString()
	started := c.now()
	if strings.TrimSpace(req.SiteHash) == "" {
		return Result{}, c.fail(id, req.SiteHash, started, fmt.Errorf("%w: site hash is required", ErrValidation))
	}
	settings := c.settings
	if req.Settings != nil {
		if err := req.Settings.Validate(); err != nil {
			return Result{}, c.fail(id, req.SiteHash, started, err)
		}
		settings = *req.Settings
	}
	filters := c.Filters()

	tz, err := c.provider.Timezone(ctx, req.SiteHash, req.BaseTime)
	if err != nil {
		return Result{}, c.fail(id, req.SiteHash, started, fmt.Errorf("get timezone: %w", err))
	}
	settings, err = settings.WithTimezone(tz)
	if err != nil {
		return Result{}, c.fail(id, req.SiteHash, started, err)
	}

	base := started
	if req.BaseTime != nil {
		base = *req.BaseTime
	}
	start, end := LookbackWindow(base, settings.Location(), c.lookbackMonths)
	resp, err := c.provider.Usages(ctx, req.SiteHash, model.UsageQuery{
		Start:  start.UnixMilli(),
		End:    end.UnixMilli(),
		Period: settings.Period,
	})
	if err != nil {
		return Result{}, c.fail(id, req.SiteHash, started, fmt.Errorf("get usages: %w", err))
	}
	items, err := PickItems(resp)
	if err != nil {
		return Result{}, c.fail(id, req.SiteHash, started, err)
	}

	samples := fold(filters, items, settings, func(name string, in, out int) {
		c.log.Debugw("filter applied", map[string]any{"calculation_id": id, "site_hash": req.SiteHash, "stage": name, "in": in, "out": out})
		if rec, ok := c.sink.(metrics.StageRecorder); ok {
			if err := rec.RecordStage(metrics.StageEvent{CalculationID: id, SiteHash: req.SiteHash, Stage: name, In: in, Out: out}); err != nil {
				c.log.Warnf("record stage: %v", err)
			}
		}
	})
	summary, err := Summarize(samples)
	if err != nil {
		return Result{}, c.fail(id, req.SiteHash, started, fmt.Errorf("site %s: %w", req.SiteHash, err))
	}

	res := Result{
		ID:       id,
		SiteHash: req.SiteHash,
		Timezone: tz,
		Baseline: summary.Mean,
		Summary:  summary,
		Readings: len(items),
		Samples:  samples,
		Start:    start,
		End:      end,
	}
	finished := c.now()
	if err := c.sink.RecordBaseline(metrics.BaselineEvent{
		CalculationID: id,
		SiteHash:      req.SiteHash,
		Timezone:      tz,
		Baseline:      res.Baseline,
		Readings:      res.Readings,
		Samples:       summary.Count,
		StdDev:        summary.StdDev,
		Start:         start,
		End:           end,
		Duration:      finished.Sub(started),
		Time:          finished,
	}); err != nil {
		c.log.Warnf("record baseline: %v", err)
	}
	c.log.Infof("site %s baseline %.3f from %d/%d readings", req.SiteHash, res.Baseline, summary.Count, len(items))
	return res, nil
}

func (c *Calculator) fail(id, siteHash string, started time.Time, err error) error {
	kind := FailureKind(err)
	finished := c.now()
	if rec, ok := c.sink.(metrics.FailureRecorder); ok {
		if rerr := rec.RecordFailure(metrics.FailureEvent{
			CalculationID: id,
			SiteHash:      siteHash,
			Kind:          kind,
			Error:         err.Error(),
			Duration:      finished.Sub(started),
			Time:          finished,
		}); rerr != nil {
			c.log.Warnf("record failure: %v", rerr)
		}
	}
	if kind == KindProvider {
		monitoring.CaptureException(err, map[string]string{"site_hash": siteHash, "module": "baseline"})
		c.log.Errorf("calculation %s failed: %v", id, err)
	} else {
		c.log.Warnf("calculation %s rejected (%s): %v", id, kind, err)
	}
	return err
}

// LookbackWindow returns the [start, end) range of whole local days ending at
// the local midnight that starts base's day.
func LookbackWindow(base time.Time, loc *time.Location, months int) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	b := base.In(loc)
	end := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return end.AddDate(0, -months, 0), end
}

func filterNames(filters []Filter) []string {
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = FilterName(f)
	}
	return names
}
