// Package publish defines the uniform catalog sink interface the scan
// scheduler fans results out to, and adapts each protocol-specific
// publisher package (mqtt, kafka, valkey) to it.
package publish

import (
	"context"

	"github.com/omrontag/tagscan/catalog"
)

// Sink receives one PLC's freshly scanned catalog.
type Sink interface {
	Publish(ctx context.Context, plcName string, records []catalog.Record) error
}
