package publish

import (
	"context"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/valkey"
)

// ValkeySink adapts a valkey.Publisher to the Sink interface.
type ValkeySink struct {
	Publisher *valkey.Publisher
}

// Publish writes records to Valkey. The client's Set calls build their own
// short-lived context internally, so ctx is only checked up front here.
func (s ValkeySink) Publish(ctx context.Context, plcName string, records []catalog.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Publisher.PublishCatalog(plcName, records)
}
