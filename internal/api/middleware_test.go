package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
	"github.com/gojideth/Docker-compose-networks/internal/person"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestID(t *testing.T) {
	health := new(mockHealthChecker)
	health.On("Health", mock.Anything).Return(types.Healthy("ok"))
	srv := newTestServer(t, new(mockPersonService), health)

	t.Run("generated", func(t *testing.T) {
		rec := do(t, srv.Handler(), http.MethodGet, "/health")
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	persons := new(mockPersonService)
	persons.On("Create", mock.Anything).Run(func(mock.Arguments) {
		panic("driver exploded")
	})
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	srv := newTestServer(t, persons, new(mockHealthChecker), WithLogger(logger))

	rec := do(t, srv.Handler(), http.MethodPost, "/persons")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode[ErrorResponse](t, rec).Detail)
	assert.Contains(t, logs.String(), "panic in handler")
	assert.Contains(t, logs.String(), "driver exploded")
}

func TestRateLimit(t *testing.T) {
	health := new(mockHealthChecker)
	health.On("Health", mock.Anything).Return(types.Healthy("ok"))
	srv := newTestServer(t, new(mockPersonService), health,
		WithRateLimit(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}))

	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/health").Code)

	rec := do(t, srv.Handler(), http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode[ErrorResponse](t, rec).Detail)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Now()
	rl := NewRateLimiter(10, 5)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 100; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Equal(t, 100, rl.Len())

	clock = clock.Add(minIdleTTL / 2)
	rl.Allow("10.1.0.1")
	assert.Equal(t, 101, rl.Len(), "nothing is idle long enough yet")

	clock = clock.Add(minIdleTTL)
	rl.Allow("10.1.0.2")
	assert.Equal(t, 1, rl.Len(), "only the client seen since the last sweep survives")
}

func TestRateLimiter_IdleTTLCoversRefill(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	assert.GreaterOrEqual(t, rl.idleTTL, 1000*time.Second)

	clock := time.Now()
	rl.now = func() time.Time { return clock }
	require.True(t, rl.Allow("10.0.0.1"))

	clock = clock.Add(minIdleTTL + time.Second)
	assert.False(t, rl.Allow("10.0.0.1"), "an emptied bucket is not reset before it could refill")
	assert.Equal(t, 1, rl.Len())
}

func TestRequestLogger(t *testing.T) {
	persons := new(mockPersonService)
	persons.On("List", mock.Anything).Return([]person.Person{}, nil)
	logs := &bytes.Buffer{}
	logger := slog.New(observability.NewTraceHandler(slog.NewJSONHandler(logs, nil)))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	srv := newTestServer(t, persons, new(mockHealthChecker),
		WithLogger(logger), WithTracer(tp.Tracer("test")))

	do(t, srv.Handler(), http.MethodGet, "/persons")

	out := logs.String()
	assert.Contains(t, out, `"msg":"request"`)
	assert.Contains(t, out, `"route":"/persons"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"trace_id"`, "request logs are trace-correlated")
}

func TestTracingAndMetrics(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	persons := new(mockPersonService)
	persons.On("Create", mock.Anything).Return(person.Person{Name: "Quinn", Age: 52}, nil)
	srv := newTestServer(t, persons, new(mockHealthChecker),
		WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))

	do(t, srv.Handler(), http.MethodPost, "/persons")
	do(t, srv.Handler(), http.MethodGet, "/nowhere")

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "POST /persons", spans[0].Name)
	assert.Equal(t, "GET unmatched", spans[1].Name)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var requests metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == observability.MetricHTTPRequests {
				requests = m.Data.(metricdata.Sum[int64])
			}
		}
	}
	require.Len(t, requests.DataPoints, 2)
	var total int64
	for _, dp := range requests.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)
}

func TestRouteOf(t *testing.T) {
	engine := gin.New()
	var got string
	engine.GET("/persons", func(c *gin.Context) { got = routeOf(c) })
	engine.NoRoute(func(c *gin.Context) { got = routeOf(c) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/persons", nil))
	assert.Equal(t, "/persons", got)

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, unmatchedRoute, got)
}
