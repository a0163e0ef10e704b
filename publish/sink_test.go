package publish

import (
	"context"
	"testing"
	"time"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
	"github.com/omrontag/tagscan/kafka"
	"github.com/omrontag/tagscan/mqtt"
	"github.com/omrontag/tagscan/valkey"
)

var _ Sink = MQTTSink{}
var _ Sink = KafkaSink{}
var _ Sink = ValkeySink{}

func TestMQTTSinkRespectsCancelledContext(t *testing.T) {
	sink := MQTTSink{Manager: mqtt.NewManager()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Publish(ctx, "line1", nil)
	if err == nil {
		t.Fatal("expected a cancelled context to surface as an error")
	}
}

func TestValkeySinkRespectsCancelledContext(t *testing.T) {
	sink := ValkeySink{Publisher: valkey.NewPublisher(&config.ValkeyConfig{Address: "cache:6379"})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Publish(ctx, "line1", nil)
	if err == nil {
		t.Fatal("expected a cancelled context to surface as an error")
	}
}

func TestKafkaSinkFailsWhenProducerNotConnected(t *testing.T) {
	producer := kafka.NewProducer(&kafka.Config{Name: "test", Brokers: []string{"localhost:9092"}})
	sink := KafkaSink{Producer: producer, Topic: "tagscan.catalog"}

	err := sink.Publish(context.Background(), "line1", []catalog.Record{{Name: "Counter", Type: "DINT"}})
	if err == nil {
		t.Fatal("expected an error producing without a connection")
	}
}

func TestMQTTSinkIgnoresEmptyCatalogWhenRunningless(t *testing.T) {
	// Publishing with no registered publishers is a no-op, not an error;
	// Manager.PublishCatalog only logs when there is nothing to publish to.
	sink := MQTTSink{Manager: mqtt.NewManager()}
	start := time.Now()
	if err := sink.Publish(context.Background(), "line1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("Publish with no publishers should return immediately")
	}
}
