package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omrontag/tagscan/catalog"
)

// CatalogMessage is the JSON value produced for one scan.
type CatalogMessage struct {
	PLC       string           `json:"plc"`
	Records   []catalog.Record `json:"records"`
	Timestamp string           `json:"timestamp"`
}

// ProduceCatalog produces one catalog message to topic, keyed by plcName,
// so that consumers can compact on PLC identity.
func (p *Producer) ProduceCatalog(ctx context.Context, topic, plcName string, records []catalog.Record) error {
	msg := CatalogMessage{
		PLC:       plcName,
		Records:   records,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka: marshal catalog for %s: %w", plcName, err)
	}
	return p.Produce(ctx, topic, []byte(plcName), value)
}
