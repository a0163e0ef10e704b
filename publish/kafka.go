package publish

import (
	"context"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/kafka"
)

// KafkaSink adapts a kafka.Producer to the Sink interface, producing every
// catalog to a single fixed topic.
type KafkaSink struct {
	Producer *kafka.Producer
	Topic    string
}

func (s KafkaSink) Publish(ctx context.Context, plcName string, records []catalog.Record) error {
	return s.Producer.ProduceCatalog(ctx, s.Topic, plcName, records)
}
