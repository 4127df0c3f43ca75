package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func shutdown(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = fn(ctx)
	})
}

func TestInitTracing_Disabled(t *testing.T) {
	provider, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider)
	shutdown(t, provider.Shutdown)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid(), "spans still carry IDs for log correlation")
}

func TestInitTracing_NoopProvider(t *testing.T) {
	provider, err := InitTracing(context.Background(), TracingConfig{
		Enabled:    true,
		Provider:   "noop",
		SampleRate: 1.0,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)
	shutdown(t, provider.Shutdown)
}

func TestInitTracing_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  TracingConfig
	}{
		{name: "unknown provider", cfg: TracingConfig{Enabled: true, Provider: "zipkin", Endpoint: "x", SampleRate: 1}},
		{name: "missing endpoint", cfg: TracingConfig{Enabled: true, Provider: "otlp", SampleRate: 1}},
		{name: "bad sample rate", cfg: TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "x", SampleRate: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := InitTracing(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, provider)
			assert.ErrorIs(t, err, NewObservabilityError(ErrInvalidConfig, ""))
		})
	}
}

func TestInitTracing_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	res := resource.NewSchemaless(semconv.ServiceName("personsvc-test"))

	provider, err := InitTracing(context.Background(),
		TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "localhost:4317", SampleRate: 1.0, InsecureMode: true},
		WithSpanExporter(exporter),
		WithResource(res),
		WithBatchTimeout(10*time.Millisecond),
	)
	require.NoError(t, err)
	shutdown(t, provider.Shutdown)

	_, span := otel.Tracer("test").Start(context.Background(), "POST /persons")
	span.End()

	require.NoError(t, provider.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /persons", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), semconv.ServiceName("personsvc-test"))
}

func TestInitTracing_OTLPInsecure(t *testing.T) {
	// The gRPC exporter dials lazily, so no collector is needed to build it.
	provider, err := InitTracing(context.Background(), TracingConfig{
		Enabled:      true,
		Provider:     "otlp",
		Endpoint:     "127.0.0.1:4317",
		SampleRate:   0.1,
		InsecureMode: true,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)
	shutdown(t, provider.Shutdown)
}

func TestShutdownTracing(t *testing.T) {
	assert.NoError(t, ShutdownTracing(context.Background(), nil))

	provider, err := InitTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, ShutdownTracing(context.Background(), provider))
}
