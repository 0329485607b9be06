package mqtt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	coremetrics "github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func TestRecordBaselinePublishes(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", QoS: 1, Retain: true})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	start := time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)
	ev := coremetrics.BaselineEvent{
		CalculationID: "c1",
		SiteHash:      "abc",
		Timezone:      "Asia/Seoul",
		Baseline:      301.5,
		Readings:      2976,
		Samples:       31,
		Start:         start,
		End:           start.AddDate(0, 1, 0),
		Time:          start.AddDate(0, 1, 0),
	}
	if err := pub.RecordBaseline(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(mc.published))
	}
	got := mc.published[0]
	if got.topic != "alwayson/abc/baseline" || got.qos != 1 || !got.retained {
		t.Fatalf("unexpected publish %+v", got)
	}
	var msg BaselineMessage
	if err := json.Unmarshal(got.payload, &msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.MessageID == "" || msg.CalculationID != "c1" || msg.Baseline != 301.5 || msg.Samples != 31 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.WindowStart != start.UnixMilli() {
		t.Fatalf("window start %d", msg.WindowStart)
	}
}

func TestRecordFailurePublishes(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "homes"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := pub.RecordFailure(coremetrics.FailureEvent{SiteHash: "abc", Kind: "no_data", Error: "no data"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := pub.RecordFailure(coremetrics.FailureEvent{Kind: "validation"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 1 || mc.published[0].topic != "homes/abc/failure" {
		t.Fatalf("unexpected publishes %+v", mc.published)
	}
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := pub.RecordBaseline(coremetrics.BaselineEvent{SiteHash: "abc"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

func TestConnectError(t *testing.T) {
	withMockClient(t, &mockClient{connectErr: fmt.Errorf("refused")})
	if _, err := NewPublisher(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected missing broker error")
	}
	if err := (Config{Broker: "tcp://b:1883", QoS: 3}).Validate(); err == nil {
		t.Fatalf("expected qos error")
	}
}

func TestRegisteredSink(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	sink, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "mqtt", Conf: map[string]any{
		"broker": "tcp://localhost:1883", "qos": 1, "backoff_ms": "5",
	}}})
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	pub, ok := sink.(*Publisher)
	if !ok {
		t.Fatalf("expected publisher, got %T", sink)
	}
	if pub.qos != 1 || pub.backoff != 5*time.Millisecond {
		t.Fatalf("config not decoded: %+v", pub)
	}
}
