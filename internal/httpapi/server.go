package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

type Dependencies struct {
	Logger            *zap.Logger
	Addr              string
	ReadHeaderTimeout time.Duration
	AccessLogService  *service.AccessLogService
	DoorService       *service.DoorService
	// Metrics may be nil; /metrics is then not mounted.
	Metrics *metrics.Metrics
}

type Server struct {
	httpServer       *http.Server
	logger           *zap.Logger
	accessLogService *service.AccessLogService
	doorService      *service.DoorService
	metrics          *metrics.Metrics
}

func NewServer(d Dependencies) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.ReadHeaderTimeout <= 0 {
		d.ReadHeaderTimeout = 5 * time.Second
	}

	s := &Server{
		logger:           d.Logger,
		accessLogService: d.AccessLogService,
		doorService:      d.DoorService,
		metrics:          d.Metrics,
	}

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: d.ReadHeaderTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		requestIDMiddleware,
		loggingMiddleware(s.logger),
		metricsMiddleware(s.metrics),
		recoverMiddleware,
		corsMiddleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusNotFound, errorResponse{Error: "not found", Code: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: "method_not_allowed"})
	})

	r.Get("/healthz", s.handleHealth)

	r.Get("/accesos", s.handleListEvents)
	r.Post("/accesos", s.handleAppendEvents)

	r.Get("/estado", s.handleDoorState)
	// GET keeps existing polling clients working; POST is the non-safe form.
	r.Get("/abrir", s.handleDoorOpen)
	r.Post("/abrir", s.handleDoorOpen)
	r.Get("/cerrar", s.handleDoorClose)
	r.Post("/cerrar", s.handleDoorClose)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
