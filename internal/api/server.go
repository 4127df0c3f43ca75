package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gojideth/Docker-compose-networks/internal/api"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithMeter sets the meter used for request metrics.
func WithMeter(meter metric.Meter) Option {
	return func(s *Server) {
		s.meter = meter
	}
}

// WithRateLimit enables per-client rate limiting.
func WithRateLimit(cfg config.RateLimitConfig) Option {
	return func(s *Server) {
		s.rateLimit = cfg
	}
}

// Server is the HTTP API.
type Server struct {
	cfg       config.ServerConfig
	rateLimit config.RateLimitConfig
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter

	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router and HTTP server. It does not listen.
func NewServer(cfg config.ServerConfig, persons PersonService, health HealthChecker, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.Tracer(instrumentationName),
		meter:  noop.NewMeterProvider().Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	httpMetrics, err := observability.NewHTTPMetrics(s.meter)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	// Recovery sits innermost so the outer middleware observe the 500.
	router.Use(
		RequestID(),
		Tracing(s.tracer),
		Metrics(httpMetrics),
		RequestLogger(s.logger.With("component", "http")),
		Recovery(s.logger),
	)
	if s.rateLimit.Enabled {
		router.Use(RateLimit(NewRateLimiter(s.rateLimit.RequestsPerSecond, s.rateLimit.Burst)))
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "Not Found"})
	})
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Detail: "Method Not Allowed"})
	})

	h := NewHandler(persons, health, s.logger)
	router.POST("/persons", h.CreatePerson)
	router.GET("/persons", h.ListPersons)
	router.GET("/health", h.Health)

	s.router = router
	s.http = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return types.WrapError(types.SERVER_START_FAILED,
			fmt.Sprintf("failed to listen on %s", s.cfg.ListenAddress), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("http server listening", "address", ln.Addr().String())
	return serveUntilDone(ctx, s.http, ln, s.cfg.ShutdownTimeout, s.logger)
}

// MetricsServer exposes the Prometheus scrape endpoint on its own listener.
type MetricsServer struct {
	cfg             observability.MetricsConfig
	shutdownTimeout time.Duration
	logger          *slog.Logger
	http            *http.Server
}

// NewMetricsServer serves handler at cfg.Path on cfg.ListenAddress.
func NewMetricsServer(cfg observability.MetricsConfig, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) *MetricsServer {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)

	return &MetricsServer{
		cfg:             cfg,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		http: &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run listens and serves until ctx is done.
func (m *MetricsServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.cfg.ListenAddress)
	if err != nil {
		return types.WrapError(types.SERVER_START_FAILED,
			fmt.Sprintf("failed to listen on %s", m.cfg.ListenAddress), err)
	}
	m.logger.Info("metrics server listening", "address", ln.Addr().String(), "path", m.cfg.Path)
	return serveUntilDone(ctx, m.http, ln, m.shutdownTimeout, m.logger)
}

func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return types.WrapError(types.SERVER_START_FAILED, "http server failed", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server", "address", ln.Addr().String())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return types.WrapError(types.SERVER_SHUTDOWN_FAILED, "graceful shutdown failed", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return types.WrapError(types.SERVER_START_FAILED, "http server failed", err)
		}
		return nil
	}
}
