package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/cmd/personsvc/internal"
	"github.com/gojideth/Docker-compose-networks/internal/api"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
	"github.com/gojideth/Docker-compose-networks/internal/person"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	instrumentationName = "github.com/gojideth/Docker-compose-networks"
	closeTimeout        = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the person HTTP API",
	Long: `Serve starts the HTTP API on the configured listen address.

The service starts even when Neo4j is unreachable: queries answer 503 and
/health reports "unhealthy" until the database comes up.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, closeOut, err := observability.OpenLogOutput(cfg.Logging)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to open log output", err)
	}
	defer closeOut()

	logger, err := observability.NewLogger(cfg.Logging, out)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to create logger", err)
	}
	slog.SetDefault(logger)

	tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := observability.ShutdownTracing(shutdownCtx, tracerProvider); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	metricsProvider, err := observability.InitMetrics(ctx, cfg.Metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown failed", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(instrumentationName)
	meter := metricsProvider.Meter(instrumentationName)

	client, err := graph.NewNeo4jClient(cfg.Neo4j.GraphClientConfig(),
		graph.WithTracer(tracer),
		graph.WithMeter(meter),
		graph.WithLogger(logger.With("component", "graph")),
	)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "invalid neo4j configuration", err)
	}

	logger.Info("connecting to graph database", "uri", cfg.Neo4j.URI, "user", cfg.Neo4j.Username)
	if err := client.Connect(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		logger.Warn("graph database not reachable, serving degraded", "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			logger.Warn("failed to close graph client", "error", err)
		}
	}()

	persons := person.NewService(client,
		person.WithMeter(meter),
		person.WithLogger(logger.With("component", "person")),
	)

	gin.SetMode(gin.ReleaseMode)
	srv, err := api.NewServer(cfg.Server, persons, client,
		api.WithLogger(logger),
		api.WithTracer(tracer),
		api.WithMeter(meter),
		api.WithRateLimit(cfg.RateLimit),
	)
	if err != nil {
		return fmt.Errorf("failed to build http server: %w", err)
	}

	return serve(ctx, cfg, srv, metricsProvider, logger)
}

// serve runs the API server and, when enabled, the metrics server until ctx
// is done or either of them fails.
func serve(ctx context.Context, cfg *config.Config, srv *api.Server, metricsProvider *observability.MetricsProvider, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	if metricsProvider.Enabled() {
		metricsSrv := api.NewMetricsServer(cfg.Metrics, metricsProvider.Handler(), cfg.Server.ShutdownTimeout, logger)
		g.Go(func() error {
			return metricsSrv.Run(gctx)
		})
	}

	err := g.Wait()
	logger.Info("personsvc stopped")
	return err
}
