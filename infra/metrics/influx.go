package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/logger"
)

// InfluxConfig locates the bucket receiving calculation events.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes calculation events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.BaselineSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close flushes and releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordBaseline writes one always_on_baseline point per calculation.
func (s *InfluxSink) RecordBaseline(ev coremetrics.BaselineEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("always_on_baseline").
		AddTag("site", ev.SiteHash).
		AddTag("timezone", ev.Timezone).
		AddTag("calculation_id", ev.CalculationID).
		AddField("baseline_w", round3(ev.Baseline)).
		AddField("std_dev_w", round3(ev.StdDev)).
		AddField("readings", ev.Readings).
		AddField("samples", ev.Samples).
		AddField("window_start", ev.Start.UnixMilli()).
		AddField("window_end", ev.End.UnixMilli()).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFailure writes an always_on_failure point.
func (s *InfluxSink) RecordFailure(ev coremetrics.FailureEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("always_on_failure").
		AddTag("site", ev.SiteHash).
		AddTag("kind", ev.Kind).
		AddTag("calculation_id", ev.CalculationID).
		AddField("error", ev.Error).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
