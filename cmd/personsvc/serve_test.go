package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/internal/api"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
	"github.com/gojideth/Docker-compose-networks/internal/person"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddress = "127.0.0.1:0"

	metricsProvider, err := observability.InitMetrics(context.Background(), cfg.Metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = metricsProvider.Shutdown(context.Background()) })

	client := graph.NewMockGraphClient()
	srv, err := api.NewServer(cfg.Server, person.NewService(client), client,
		api.WithLogger(logger),
		api.WithMeter(metricsProvider.Meter("test")),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, srv, metricsProvider, logger)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServe_ListenFailureStopsAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = occupied.Close() })

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddress = occupied.Addr().String()
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddress = "127.0.0.1:0"

	metricsProvider, err := observability.InitMetrics(context.Background(), cfg.Metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = metricsProvider.Shutdown(context.Background()) })

	client := graph.NewMockGraphClient()
	srv, err := api.NewServer(cfg.Server, person.NewService(client), client, api.WithLogger(logger))
	require.NoError(t, err)

	err = serve(context.Background(), cfg, srv, metricsProvider, logger)

	require.Error(t, err)
	assert.Equal(t, types.SERVER_START_FAILED, types.CodeOf(err))
}
