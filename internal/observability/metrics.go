package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gojideth/Docker-compose-networks/pkg/version"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Metric name constants for personsvc HTTP observability. Graph and person
// metrics are declared next to the code that records them.
const (
	MetricHTTPRequests = "personsvc.http.requests"
	MetricHTTPDuration = "personsvc.http.duration"
)

// MetricsProvider owns the meter provider and, when Prometheus export is
// enabled, the registry it is scraped from.
type MetricsProvider struct {
	provider metric.MeterProvider
	sdk      *sdkmetric.MeterProvider
	registry *promclient.Registry
}

// InitMetrics initializes metrics according to cfg.
//
// When cfg.Enabled is false the provider is a no-op and Handler answers 404.
// With the "prometheus" provider, instruments are exported through an
// OpenTelemetry Prometheus exporter into a private registry that also carries
// the Go runtime and process collectors. The provider is installed globally.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (*MetricsProvider, error) {
	if !cfg.Enabled {
		return &MetricsProvider{provider: noop.NewMeterProvider()}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapObservabilityError(ErrInvalidConfig, "invalid metrics configuration", err)
	}

	switch strings.ToLower(cfg.Provider) {
	case "prometheus":
		return initPrometheusProvider(ctx)
	default:
		return nil, NewObservabilityError(ErrInvalidConfig,
			fmt.Sprintf("unsupported metrics provider: %s", cfg.Provider))
	}
}

func initPrometheusProvider(ctx context.Context) (*MetricsProvider, error) {
	registry := promclient.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to register go collector", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to register process collector", err)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to create prometheus exporter", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(version.Name),
			semconv.ServiceVersion(version.Version),
		),
	)
	if err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "failed to create resource", err)
	}

	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(sdk)

	return &MetricsProvider{
		provider: sdk,
		sdk:      sdk,
		registry: registry,
	}, nil
}

// Enabled reports whether metrics are exported.
func (p *MetricsProvider) Enabled() bool {
	return p.registry != nil
}

// MeterProvider returns the underlying meter provider.
func (p *MetricsProvider) MeterProvider() metric.MeterProvider {
	return p.provider
}

// Meter returns a named meter from the provider.
func (p *MetricsProvider) Meter(name string) metric.Meter {
	return p.provider.Meter(name)
}

// Handler serves the registry in the Prometheus exposition format.
func (p *MetricsProvider) Handler() http.Handler {
	if p.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		Registry:          p.registry,
		EnableOpenMetrics: true,
	})
}

// Shutdown flushes and releases the SDK provider. It is a no-op when disabled.
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	if err := p.sdk.Shutdown(ctx); err != nil {
		return WrapObservabilityError(ErrShutdownTimeout, "failed to shutdown meter provider", err)
	}
	return nil
}

// HTTPMetrics records per-request counters and latency.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewHTTPMetrics creates the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(MetricHTTPRequests,
		metric.WithDescription("HTTP requests served, by method, route and status"))
	if err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to create request counter", err)
	}

	duration, err := meter.Float64Histogram(MetricHTTPDuration,
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, WrapObservabilityError(ErrMetricsRegistration, "failed to create request histogram", err)
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// Record adds one request observation.
func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
