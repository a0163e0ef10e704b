// Package valkey caches tag catalogs in a Valkey/Redis server, one key per
// PLC plus a last-scan timestamp, using go-redis's client.
package valkey

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
)

// joinKey joins key segments with colons, trimming leading/trailing colons
// from each segment to avoid empty key parts.
func joinKey(segments ...string) string {
	var parts []string
	for _, s := range segments {
		s = strings.Trim(s, ":")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}

// CatalogMessage is the JSON document stored at tagscan:<plc>:catalog.
type CatalogMessage struct {
	PLC       string           `json:"plc"`
	Records   []catalog.Record `json:"records"`
	Timestamp time.Time        `json:"timestamp"`
}

// Publisher handles caching tag catalogs to a Valkey server.
type Publisher struct {
	config  *config.ValkeyConfig
	client  *redis.Client
	running bool
	mu      sync.RWMutex
}

// NewPublisher creates a new Valkey publisher.
func NewPublisher(cfg *config.ValkeyConfig) *Publisher {
	return &Publisher{config: cfg}
}

// Start connects to the Valkey server.
func (p *Publisher) Start() error {
	p.mu.RLock()
	if p.running {
		p.mu.RUnlock()
		return nil
	}
	p.mu.RUnlock()

	opts := &redis.Options{
		Addr:         p.config.Address,
		Password:     p.config.Password,
		DB:           p.config.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
	if p.config.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	debugLog("Attempting to connect to Valkey at %s (DB: %d, TLS: %v)", p.config.Address, p.config.DB, p.config.UseTLS)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		debugLog("Valkey connection failed: %v", err)
		client.Close()
		return fmt.Errorf("failed to connect to Valkey at %s: %w", p.config.Address, err)
	}

	debugLog("Successfully connected to Valkey at %s", p.config.Address)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		client.Close()
		return nil
	}
	p.client = client
	p.running = true
	return nil
}

// Stop disconnects from the Valkey server.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client != nil {
		return client.Close()
	}
	return nil
}

// IsRunning returns whether the publisher is connected.
func (p *Publisher) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Config returns the publisher's configuration.
func (p *Publisher) Config() *config.ValkeyConfig {
	return p.config
}

// Address returns the server address.
func (p *Publisher) Address() string {
	scheme := "redis"
	if p.config.UseTLS {
		scheme = "rediss"
	}
	return fmt.Sprintf("%s://%s", scheme, p.config.Address)
}

// PublishCatalog writes plcName's catalog to tagscan:<plc>:catalog and
// stamps tagscan:<plc>:last_scan with the current time.
func (p *Publisher) PublishCatalog(plcName string, records []catalog.Record) error {
	p.mu.RLock()
	if !p.running || p.client == nil {
		p.mu.RUnlock()
		return fmt.Errorf("valkey: publisher is not running")
	}
	client := p.client
	p.mu.RUnlock()

	now := time.Now().UTC()
	msg := CatalogMessage{PLC: plcName, Records: records, Timestamp: now}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("valkey: marshal catalog for %s: %w", plcName, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	catalogKey := joinKey("tagscan", plcName, "catalog")
	if err := client.Set(ctx, catalogKey, data, 0).Err(); err != nil {
		return fmt.Errorf("valkey: set %s: %w", catalogKey, err)
	}

	scanKey := joinKey("tagscan", plcName, "last_scan")
	if err := client.Set(ctx, scanKey, now.Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("valkey: set %s: %w", scanKey, err)
	}

	return nil
}

// Debug logging
var debugLogger DebugLogger

// DebugLogger interface for debug logging.
type DebugLogger interface {
	LogValkey(format string, args ...interface{})
}

// SetDebugLogger sets the debug logger.
func SetDebugLogger(logger DebugLogger) {
	debugLogger = logger
}

func debugLog(format string, args ...interface{}) {
	if debugLogger != nil {
		debugLogger.LogValkey(format, args...)
	}
}
