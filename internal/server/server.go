// Package server exposes playback progress over HTTP while a simulation
// runs: a JSON status endpoint, a websocket stream of sent messages, a
// Prometheus endpoint, and a small live dashboard.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tfontaine/geosim/internal/logging"
	"github.com/tfontaine/geosim/internal/rate"
	"github.com/tfontaine/geosim/internal/scheduler"
)

// Server is the geosim status HTTP server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	sched      *scheduler.Scheduler
	model      *rate.Model
	hub        *Hub
	gatherer   prometheus.Gatherer
	log        *logging.Logger
}

// New creates a status server for the given scheduler and rate model.
func New(addr string, sched *scheduler.Scheduler, model *rate.Model, hub *Hub, gatherer prometheus.Gatherer, log *logging.Logger) *Server {
	s := &Server{
		sched:    sched,
		model:    model,
		hub:      hub,
		gatherer: gatherer,
		log:      log,
		mux:      http.NewServeMux(),
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: loggingMiddleware(s.mux, log),
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.HandleFunc("/ws", s.hub.HandleWebSocket)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// handleDashboard serves the embedded live dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(DashboardHTML))
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStatus reports playback progress.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.sched.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":         "geosim",
		"state":           stats.State.String(),
		"cursor":          stats.Cursor,
		"sent":            stats.Sent,
		"delivery_errors": stats.DeliveryErrors,
		"end_reached":     stats.EndReached,
		"interval_ms":     s.model.Interval().Milliseconds(),
		"throughput":      s.model.Throughput(),
		"clients":         s.hub.ClientCount(),
		"time":            time.Now().Format(time.RFC3339),
	})
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Infow("status server listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.log.Infow("status server listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
