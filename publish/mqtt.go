package publish

import (
	"context"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/mqtt"
)

// MQTTSink adapts an mqtt.Manager to the Sink interface.
type MQTTSink struct {
	Manager *mqtt.Manager
}

// Publish fans records out to every running MQTT publisher in the manager.
// mqtt's underlying client has no context-aware publish call, so ctx is
// only checked before the call, not threaded through it.
func (s MQTTSink) Publish(ctx context.Context, plcName string, records []catalog.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Manager.PublishCatalog(plcName, records)
	return nil
}
