// Package server is the backend-for-frontend of a browser board: it
// validates and forwards saves and schedule requests to the scheduler
// service, serves the projected timeline, and exposes health probes and
// metrics.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/gateway"
	"github.com/felixgeelhaar/planboard/internal/health"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/refresh"
	"github.com/felixgeelhaar/planboard/internal/schedule"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// Saver runs the save sequence
type Saver interface {
	Save(ctx context.Context, payload board.Payload, finalizer gateway.Finalizer) (gateway.SaveOutcome, error)
}

// Scheduler runs the schedule sequence
type Scheduler interface {
	Request(ctx context.Context) (*api.ScheduleResponse, error)
}

// TimelineSource reads the stored gantt-chart snapshot
type TimelineSource interface {
	FetchTimeline(ctx context.Context) (*timeline.Snapshot, error)
}

// Deps are the collaborators of the server
type Deps struct {
	Saver     Saver
	Scheduler Scheduler
	Timeline  TimelineSource
	Tokens    *refresh.Tokens
	Probes    *health.ProbeManager

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Config holds server configuration.
type Config struct {
	Address string

	// ShutdownTimeout bounds connection draining. Defaults to 30s.
	ShutdownTimeout time.Duration
	// ReadTimeout defaults to 10s.
	ReadTimeout time.Duration
	// WriteTimeout defaults to 60s; a save waits on two upstream calls.
	WriteTimeout time.Duration
	// IdleTimeout defaults to 60s.
	IdleTimeout time.Duration

	// TooltipWidthPct is used when a timeline request has no tooltipWidth.
	TooltipWidthPct float64
}

// Server serves the board API.
type Server struct {
	httpServer      *http.Server
	deps            Deps
	tooltipWidth    float64
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
	timelineFlight  singleflight.Group
}

// NewServer creates the server and registers its routes.
func NewServer(deps Deps, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.TooltipWidthPct <= 0 {
		cfg.TooltipWidthPct = 20
	}
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Tokens == nil {
		deps.Tokens = &refresh.Tokens{}
	}
	if deps.Probes == nil {
		deps.Probes = health.NewProbeManager("")
	}

	s := &Server{
		deps:            deps,
		tooltipWidth:    cfg.TooltipWidthPct,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /api/save-project", s.handleSaveProject)
	s.route(mux, "POST /api/schedule", s.handleSchedule)
	s.route(mux, "GET /api/timeline", s.handleTimeline)
	s.route(mux, "GET /api/refresh", s.handleRefresh)

	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /health/startup", s.handleStartup)
	mux.HandleFunc("GET /healthz", s.handleReadiness)

	if s.deps.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.HandlerFor(s.deps.Gatherer))
	}

	return otelhttp.NewHandler(mux, "planboard")
}

// route registers h with request metrics and a request-scoped logger.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.deps.Metrics.ObserveHTTP(pattern, rec.status, time.Since(start))
		s.deps.Logger.DebugContext(r.Context(), "request served",
			"route", pattern,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	s.deps.Probes.MarkInitialized()
	s.deps.Logger.Info("server listening", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown fails readiness, stops keep-alives and drains connections for
// up to the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.deps.Probes.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether Shutdown has been called.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

// compile-time checks
var (
	_ Saver          = (*gateway.Sync)(nil)
	_ Scheduler      = (*schedule.Requestor)(nil)
	_ TimelineSource = (*api.Client)(nil)
)
