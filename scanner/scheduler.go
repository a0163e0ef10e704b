// Package scanner drives periodic tag catalog scans against configured
// PLCs and fans each result out to the configured publish sinks. It
// follows plcman's per-device worker goroutine and mutex-guarded
// last-result cache, scoped down to read-only enumeration: there is no
// tag value cache, no write path, and no change-detection, since a scan
// here always replaces the prior catalog wholesale.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
	"github.com/omrontag/tagscan/eip"
	"github.com/omrontag/tagscan/logging"
	"github.com/omrontag/tagscan/publish"
)

// Result is the outcome of the most recent scan of one PLC.
type Result struct {
	Records   []catalog.Record
	Err       error
	Timestamp time.Time
}

// managedPLC holds one PLC's configuration alongside its last scan result.
type managedPLC struct {
	cfg    config.PLCConfig
	mu     sync.RWMutex
	last   Result
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Scheduler periodically scans every configured PLC and publishes each
// catalog to every registered sink.
type Scheduler struct {
	interval time.Duration
	sinks    []publish.Sink
	logger   *logging.FileLogger

	mu   sync.RWMutex
	plcs map[string]*managedPLC

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler that rescans every interval and fans results out
// to sinks. A nil logger drops log output.
func New(interval time.Duration, sinks []publish.Sink, logger *logging.FileLogger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		interval: interval,
		sinks:    sinks,
		logger:   logger,
		plcs:     make(map[string]*managedPLC),
	}
}

// LoadFromConfig registers one managed PLC per entry in cfg.PLCs.
func (s *Scheduler) LoadFromConfig(cfg *config.Config) {
	for _, plc := range cfg.PLCs {
		s.AddPLC(plc)
	}
}

// AddPLC registers a PLC for periodic scanning. Calling it while the
// scheduler is running immediately starts a worker for it.
func (s *Scheduler) AddPLC(cfg config.PLCConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plcs[cfg.Name]; exists {
		return
	}
	mp := &managedPLC{cfg: cfg}
	s.plcs[cfg.Name] = mp

	if s.ctx != nil {
		s.startWorker(mp)
	}
}

// PLCNames returns the names of every registered PLC.
func (s *Scheduler) PLCNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.plcs))
	for name := range s.plcs {
		names = append(names, name)
	}
	return names
}

// LastResult returns the most recent scan outcome for name, or false if
// name is not registered or has not been scanned yet.
func (s *Scheduler) LastResult(name string) (Result, bool) {
	s.mu.RLock()
	mp, ok := s.plcs[name]
	s.mu.RUnlock()
	if !ok {
		return Result{}, false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	if mp.last.Timestamp.IsZero() {
		return Result{}, false
	}
	return mp.last, true
}

// TriggerScan runs one immediate scan of name outside its regular
// interval, blocking until it completes.
func (s *Scheduler) TriggerScan(name string) error {
	s.mu.RLock()
	mp, ok := s.plcs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("scanner: PLC %q not registered", name)
	}
	s.scanOne(mp)
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.last.Err
}

// Start begins the periodic scan loop for every registered PLC.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, mp := range s.plcs {
		s.startWorker(mp)
	}
}

// Stop halts every worker and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	plcs := make([]*managedPLC, 0, len(s.plcs))
	for _, mp := range s.plcs {
		plcs = append(plcs, mp)
	}
	s.ctx, s.cancel = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, mp := range plcs {
		mp.wg.Wait()
	}
}

func (s *Scheduler) startWorker(mp *managedPLC) {
	ctx, cancel := context.WithCancel(s.ctx)
	mp.cancel = cancel
	mp.wg.Add(1)
	go s.pollLoop(ctx, mp)
}

func (s *Scheduler) pollLoop(ctx context.Context, mp *managedPLC) {
	defer mp.wg.Done()

	s.scanOne(mp)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scanOne(mp)
		}
	}
}

// scanOne opens a fresh transport, runs one enumeration, records the
// result, and publishes it to every sink on success. A connection or
// decode failure is recorded as the PLC's last error and never retried
// mid-scan; the next tick tries again from scratch.
func (s *Scheduler) scanOne(mp *managedPLC) {
	mp.mu.RLock()
	cfg := mp.cfg
	mp.mu.RUnlock()

	client := eip.NewEipClientWithPort(cfg.Address, defaultEipPort(cfg))
	if err := client.SetTimeout(cfg.TimeoutOrDefault()); err != nil {
		s.record(mp, nil, fmt.Errorf("scanner: %s: set timeout: %w", cfg.Name, err))
		return
	}
	if err := client.Connect(); err != nil {
		s.record(mp, nil, fmt.Errorf("scanner: %s: connect: %w", cfg.Name, err))
		return
	}
	defer client.Disconnect()

	transport := eip.NewExplicitTransport(client)

	records, err := catalog.Scan(transport, s)
	if err != nil {
		s.record(mp, nil, fmt.Errorf("scanner: %s: scan: %w", cfg.Name, err))
		return
	}

	s.record(mp, records, nil)
	s.publish(cfg.Name, records)
}

func defaultEipPort(cfg config.PLCConfig) uint16 {
	if cfg.Port <= 0 {
		return 0xAF12
	}
	return uint16(cfg.Port)
}

func (s *Scheduler) record(mp *managedPLC, records []catalog.Record, err error) {
	mp.mu.Lock()
	mp.last = Result{Records: records, Err: err, Timestamp: time.Now()}
	mp.mu.Unlock()
	if err != nil && s.logger != nil {
		s.logger.Log("scanner: %v", err)
	}
}

func (s *Scheduler) publish(plcName string, records []catalog.Record) {
	ctx := context.Background()
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, plcName, records); err != nil && s.logger != nil {
			s.logger.Log("scanner: publish %s: %v", plcName, err)
		}
	}
}

// Warnf implements taginfo.Warner (also used by enum) by routing enumeration
// warnings through the scheduler's logger.
func (s *Scheduler) Warnf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Log(format, args...)
	}
}
