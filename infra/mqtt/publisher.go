package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/monitoring"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends calculation results to per-site topics. It implements
// metrics.BaselineSink and metrics.FailureRecorder.
type Publisher struct {
	cli     pahoClient
	log     logger.Logger
	prefix  string
	qos     byte
	retain  bool
	retries int
	backoff time.Duration
}

// BaselineMessage is the payload published on <prefix>/<site>/baseline.
type BaselineMessage struct {
	MessageID     string  `json:"message_id"`
	CalculationID string  `json:"calculation_id"`
	SiteHash      string  `json:"site_hash"`
	Timezone      string  `json:"timezone"`
	Baseline      float64 `json:"baseline"`
	StdDev        float64 `json:"std_dev"`
	Readings      int     `json:"readings"`
	Samples       int     `json:"samples"`
	WindowStart   int64   `json:"window_start"`
	WindowEnd     int64   `json:"window_end"`
	Timestamp     int64   `json:"timestamp"`
}

// FailureMessage is the payload published on <prefix>/<site>/failure.
type FailureMessage struct {
	MessageID     string `json:"message_id"`
	CalculationID string `json:"calculation_id"`
	SiteHash      string `json:"site_hash"`
	Kind          string `json:"kind"`
	Error         string `json:"error"`
	Timestamp     int64  `json:"timestamp"`
}

// NewPublisher connects to the MQTT broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{
		cli:     c,
		log:     log,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
		retries: cfg.MaxRetries,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
}

// Topic returns the topic of kind ("baseline" or "failure") for a site.
func (p *Publisher) Topic(siteHash, kind string) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, siteHash, kind)
}

// RecordBaseline publishes the calculated baseline of a site.
func (p *Publisher) RecordBaseline(ev coremetrics.BaselineEvent) error {
	msg := BaselineMessage{
		MessageID:     uuid.NewString(),
		CalculationID: ev.CalculationID,
		SiteHash:      ev.SiteHash,
		Timezone:      ev.Timezone,
		Baseline:      ev.Baseline,
		StdDev:        ev.StdDev,
		Readings:      ev.Readings,
		Samples:       ev.Samples,
		WindowStart:   ev.Start.UnixMilli(),
		WindowEnd:     ev.End.UnixMilli(),
		Timestamp:     ev.Time.UnixMilli(),
	}
	return p.publish(ev.SiteHash, p.Topic(ev.SiteHash, "baseline"), msg)
}

// RecordFailure publishes a failed calculation. Failures without a site hash
// have no topic and are dropped.
func (p *Publisher) RecordFailure(ev coremetrics.FailureEvent) error {
	if ev.SiteHash == "" {
		return nil
	}
	msg := FailureMessage{
		MessageID:     uuid.NewString(),
		CalculationID: ev.CalculationID,
		SiteHash:      ev.SiteHash,
		Kind:          ev.Kind,
		Error:         ev.Error,
		Timestamp:     ev.Time.UnixMilli(),
	}
	return p.publish(ev.SiteHash, p.Topic(ev.SiteHash, "failure"), msg)
}

func (p *Publisher) publish(siteHash, topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.retries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	monitoring.CaptureException(publishErr, map[string]string{"site_hash": siteHash, "module": "mqtt"})
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Disconnect gracefully closes the MQTT connection.
func (p *Publisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

func init() {
	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.BaselineSink, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return NewPublisher(cfg)
	})
}
