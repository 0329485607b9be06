package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	apibaseline "github.com/songpengyi/enertalk-alwayson-calculator/api/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/app/plugins"
	"github.com/songpengyi/enertalk-alwayson-calculator/config"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
	coremon "github.com/songpengyi/enertalk-alwayson-calculator/core/monitoring"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/logger"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/metrics"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/monitoring"
)

// Service wires the calculator to its provider, sinks and HTTP surface.
type Service struct {
	Calculator *baseline.Calculator
	cfg        *config.Config
	log        logger.Logger
	closers    []func()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("%w: logging level: %w", baseline.ErrConfiguration, err)
	}
	svc := &Service{cfg: cfg}
	if lc := cfg.Logging; lc.File != "" {
		w, err := logger.RotatingFile(lc.File, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
		if err != nil {
			return nil, fmt.Errorf("%w: log file: %w", baseline.ErrConfiguration, err)
		}
		logger.SetOutput(w)
		svc.closers = append(svc.closers, func() {
			logger.SetOutput(nil)
			_ = w.Close()
		})
	}
	svc.log = logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	svc.closers = append(svc.closers, func() {
		mon.Flush(2 * time.Second)
		coremon.Init(nil)
	})

	p, err := plugins.NewProvider(cfg.Provider)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.addCloser(p)
	sink, err := plugins.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.addCloser(sink)
	if multi, ok := sink.(*coremetrics.MultiSink); ok {
		for _, s := range multi.Sinks {
			svc.addCloser(s)
		}
	}
	filters, err := plugins.NewFilters(cfg.Calculator.Filters)
	if err != nil {
		svc.Close()
		return nil, err
	}
	settings, err := cfg.Calculator.Settings()
	if err != nil {
		svc.Close()
		return nil, err
	}
	calc, err := baseline.New(p,
		baseline.WithLogger(logger.New("calculator")),
		baseline.WithSink(sink),
		baseline.WithSettings(settings),
		baseline.WithFilters(filters),
		baseline.WithLookbackMonths(cfg.Calculator.LookbackMonths),
	)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.Calculator = calc
	return svc, nil
}

// addCloser registers the release function of modules holding connections.
func (s *Service) addCloser(v any) {
	switch c := v.(type) {
	case io.Closer:
		s.closers = append(s.closers, func() {
			if err := c.Close(); err != nil {
				s.log.Warnf("close: %v", err)
			}
		})
	case interface{ Close() }:
		s.closers = append(s.closers, c.Close)
	case interface{ Disconnect() }:
		s.closers = append(s.closers, c.Disconnect)
	}
}

// Calculate runs one calculation with the configured defaults.
func (s *Service) Calculate(ctx context.Context, siteHash string, baseTime *time.Time) (baseline.Result, error) {
	return s.Calculator.Calculate(ctx, baseline.Request{SiteHash: siteHash, BaseTime: baseTime})
}

// Handler returns the API routes, with /metrics unless a dedicated metrics
// address is configured.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/baseline", apibaseline.NewHandler(s.Calculator, s.cfg.Server.RequestTimeout))
	mux.Handle("/api/filters", apibaseline.NewFiltersHandler(s.Calculator))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.cfg.Server.MetricsAddress == "" {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}

// Run serves the API and refreshes the configured sites until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	if addr := s.cfg.Server.MetricsAddress; addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.Server.RefreshInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.refreshLoop(ctx)
		}()
	}
	err := metrics.Serve(ctx, &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	})
	wg.Wait()
	return err
}

func (s *Service) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Server.RefreshInterval)
	defer ticker.Stop()
	s.RefreshSites(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshSites(ctx)
		}
	}
}

// RefreshSites recalculates every configured site once. Failures are logged
// and reported through the sinks by the calculator.
func (s *Service) RefreshSites(ctx context.Context) {
	for _, site := range s.cfg.Server.Sites {
		if ctx.Err() != nil {
			return
		}
		cctx, cancel := context.WithTimeout(ctx, s.cfg.Server.RequestTimeout)
		if _, err := s.Calculate(cctx, site, nil); err != nil {
			s.log.Warnf("refresh %s: %v", site, err)
		}
		cancel()
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
	return nil
}
