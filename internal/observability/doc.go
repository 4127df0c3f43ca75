// Package observability wires structured logging, metrics and distributed
// tracing for personsvc.
//
// # Logging
//
// NewLogger builds a slog.Logger whose records carry trace_id and span_id
// when logged with a context that holds a recording span. Sensitive keys
// (password, token, secret, ...) are redacted at every level.
//
//	logger, err := observability.NewLogger(cfg.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// # Metrics
//
// InitMetrics returns a MetricsProvider backed by the OpenTelemetry SDK and a
// Prometheus registry. Handler serves the registry in the Prometheus text
// format; when metrics are disabled the provider is a no-op and Handler
// answers 404.
//
//	metrics, err := observability.InitMetrics(ctx, cfg.Metrics)
//	if err != nil {
//	    return err
//	}
//	defer metrics.Shutdown(ctx)
//
// # Tracing
//
// InitTracing installs a global tracer provider that exports over OTLP/gRPC,
// or a provider with no exporter when tracing is disabled:
//
//	tp, err := observability.InitTracing(ctx, cfg.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer observability.ShutdownTracing(ctx, tp)
package observability
