// Package health exposes the admin HTTP surface: a healthcheck endpoint
// answering with each registered service's enabled state, and a metrics
// endpoint for Prometheus scraping. Grounded on
// http/src/healthcheck/{api,checks,service}.rs and http/src/server.rs.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthcheckPath = "/admin/healthcheck"
const metricsPath = "/admin/metrics"

// Check reports whether a named service is enabled (healthy).
type Check struct {
	Service string `json:"service"`
	Enabled bool   `json:"enabled"`
}

// CheckFunc performs one health check, returning its enabled state.
type CheckFunc func(ctx context.Context) bool

type checkResponse struct {
	Data []Check `json:"data"`
}

type errorEntry struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Data []errorEntry `json:"data"`
}

// Server serves the admin HTTP surface.
type Server struct {
	host string
	port int

	mu     sync.RWMutex
	checks map[string]CheckFunc
	server *http.Server
}

// NewServer creates an admin server, pre-registering the always-enabled
// "http" check the way HttpHealthCheck does in the source.
func NewServer(host string, port int) *Server {
	s := &Server{
		host:   host,
		port:   port,
		checks: make(map[string]CheckFunc),
	}
	s.RegisterCheck("http", func(context.Context) bool { return true })
	return s
}

// RegisterCheck registers a named health check.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Start starts the admin HTTP server in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc(healthcheckPath, s.handleHealthcheck)
	mux.Handle(metricsPath, promhttp.Handler())

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// admin server is not on the critical path; nothing upstream to report to
		}
	}()

	return nil
}

// Stop gracefully stops the admin HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s.mu.RLock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for name, fn := range s.checks {
		checks[name] = fn
	}
	s.mu.RUnlock()

	results := make([]Check, 0, len(checks))
	anyDisabled := false
	for name, fn := range checks {
		enabled := fn(ctx)
		results = append(results, Check{Service: name, Enabled: enabled})
		if !enabled {
			anyDisabled = true
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if anyDisabled {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(errorResponse{Data: []errorEntry{
			{Code: "UNAVAILABLE", Message: "One of the services is unavailable!"},
		}})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(checkResponse{Data: results})
}
