package valkey

import (
	"testing"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
)

func TestJoinKeyTrimsEmptySegments(t *testing.T) {
	got := joinKey("tagscan", "line1", "catalog")
	want := "tagscan:line1:catalog"
	if got != want {
		t.Fatalf("joinKey() = %q, want %q", got, want)
	}
}

func TestJoinKeyDropsColonPaddedEmptySegment(t *testing.T) {
	got := joinKey("tagscan", "", "catalog")
	want := "tagscan:catalog"
	if got != want {
		t.Fatalf("joinKey() = %q, want %q", got, want)
	}
}

func TestAddressReflectsTLS(t *testing.T) {
	p := NewPublisher(&config.ValkeyConfig{Address: "cache:6379"})
	if got := p.Address(); got != "redis://cache:6379" {
		t.Fatalf("Address() = %q", got)
	}

	p2 := NewPublisher(&config.ValkeyConfig{Address: "cache:6379", UseTLS: true})
	if got := p2.Address(); got != "rediss://cache:6379" {
		t.Fatalf("Address() = %q", got)
	}
}

func TestPublishCatalogFailsWhenNotRunning(t *testing.T) {
	p := NewPublisher(&config.ValkeyConfig{Address: "cache:6379"})
	err := p.PublishCatalog("line1", []catalog.Record{{Name: "Counter", Type: "DINT"}})
	if err == nil {
		t.Fatal("expected an error publishing while not connected")
	}
}

func TestStopWhenNotRunningIsNoop(t *testing.T) {
	p := NewPublisher(&config.ValkeyConfig{Address: "cache:6379"})
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() on an unstarted publisher returned %v", err)
	}
}
