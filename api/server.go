// Package api exposes the scanned tag catalog over a small HTTP surface:
// which PLCs are configured, each one's last-scanned catalog, and a way to
// trigger an out-of-cycle rescan. It follows the teacher's Server
// lifecycle (Start/Stop/IsRunning over an *http.Server) with chi doing the
// route dispatch that the teacher's hand-rolled path-splitting handled.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/omrontag/tagscan/config"
	"github.com/omrontag/tagscan/scanner"
)

// Provider is the subset of *scanner.Scheduler the API depends on.
type Provider interface {
	PLCNames() []string
	LastResult(name string) (scanner.Result, bool)
	TriggerScan(name string) error
}

// Server is the REST catalog API server.
type Server struct {
	provider Provider
	config   *config.RESTConfig
	server   *http.Server
	running  bool
	mu       sync.RWMutex
}

// NewServer creates a catalog API server backed by provider.
func NewServer(provider Provider, cfg *config.RESTConfig) *Server {
	return &Server{provider: provider, config: cfg}
}

// IsRunning reports whether the server is currently accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Start begins serving the catalog API.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: NewRouter(s.provider, s.config.Users),
	}

	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}
	}()

	s.running = true
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.running = false
	s.server = nil
	return err
}

// Address returns the base URL the server listens on.
func (s *Server) Address() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}
