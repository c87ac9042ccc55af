package server

import (
	"net/http"

	"github.com/felixgeelhaar/planboard/internal/health"
)

func (s *Server) writeProbe(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = unhealthyStatus
	}
	writeJSON(w, status, result)
}

// handleLiveness always answers 200, degraded during shutdown.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.deps.Probes.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness answers 503 while shutting down or when the scheduler
// service is unhealthy.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.deps.Probes.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}

// handleStartup answers 503 until the server has started.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.deps.Probes.CheckStartup(r.Context()), http.StatusServiceUnavailable)
}
