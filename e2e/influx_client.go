package e2e

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// InfluxClient is a small helper around the official InfluxDB v2 client
// used to seed usages and read back calculation events.
type InfluxClient struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
	query  api.QueryAPI
}

// NewInfluxClient creates a new client for the given parameters. It assumes
// the server is already running and reachable.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		client: c,
		write:  c.WriteAPIBlocking(org, bucket),
		query:  c.QueryAPI(org),
	}
}

// WriteUsages stores one usage point per timestamp for the site.
func (c *InfluxClient) WriteUsages(ctx context.Context, site string, start time.Time, step time.Duration, usages []float64) error {
	points := make([]*write.Point, 0, len(usages))
	for i, u := range usages {
		points = append(points, influxdb2.NewPoint("usage",
			map[string]string{"site": site},
			map[string]interface{}{"usage": u},
			start.Add(time.Duration(i)*step)))
	}
	return c.write.WritePoint(ctx, points...)
}

// Count returns the number of records returned by a Flux query.
func (c *InfluxClient) Count(ctx context.Context, flux string) (int, error) {
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

// Close releases the client.
func (c *InfluxClient) Close() { c.client.Close() }
