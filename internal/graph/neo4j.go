package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	// LivenessQuery is the trivial query Health runs through the query path.
	LivenessQuery = "RETURN 1"

	// MetricGraphQueries counts queries by access mode and outcome.
	MetricGraphQueries = "personsvc.graph.queries"
	// MetricGraphDuration records query latency in seconds.
	MetricGraphDuration = "personsvc.graph.duration"

	healthTimeout       = 5 * time.Second
	sessionCloseTimeout = 5 * time.Second
	connectBaseDelay    = 100 * time.Millisecond
	notConnectedMessage = "Cannot connect to Neo4j database"
	instrumentationName = "github.com/gojideth/Docker-compose-networks/internal/graph"
)

// Option configures a Neo4jClient.
type Option func(*Neo4jClient)

// WithTracer sets the tracer used to create one span per query.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Neo4jClient) {
		c.tracer = tracer
	}
}

// WithMeter sets the meter used for query counters and latency histograms.
func WithMeter(meter metric.Meter) Option {
	return func(c *Neo4jClient) {
		c.meter = meter
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Neo4jClient) {
		c.logger = logger
	}
}

// Neo4jClient implements GraphClient for Neo4j graph databases.
// A single driver (and its connection pool) is shared by all callers; every
// query gets its own session, so concurrent callers never share session state.
type Neo4jClient struct {
	config GraphClientConfig
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	queryCounter  metric.Int64Counter
	queryDuration metric.Float64Histogram

	mu     sync.RWMutex
	driver neo4j.DriverWithContext
}

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig, opts ...Option) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Neo4jClient{
		config: config,
		logger: slog.Default().With("component", "graph"),
		tracer: otel.Tracer(instrumentationName),
		meter:  noop.NewMeterProvider().Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.queryCounter, err = c.meter.Int64Counter(MetricGraphQueries,
		metric.WithDescription("Graph queries executed, by access mode and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create query counter: %w", err)
	}
	c.queryDuration, err = c.meter.Float64Histogram(MetricGraphDuration,
		metric.WithDescription("Graph query latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create query histogram: %w", err)
	}

	return c, nil
}

// Connect creates the driver and verifies connectivity with exponential backoff.
//
// If the driver cannot be created (malformed URI, unsupported scheme) the
// client stays disconnected. If the driver is created but the database never
// answers, the driver is kept anyway: its pool redials on demand, so queries
// fail as store-unavailable until the database comes up and succeed after.
// Either way Connect returns ErrCodeGraphConnectionFailed so the caller can log it.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver != nil {
		return nil
	}

	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		if c.config.MaxConnectionPoolSize > 0 {
			config.MaxConnectionPoolSize = c.config.MaxConnectionPoolSize
		}
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
		// Encryption is controlled by URI scheme (bolt:// vs bolt+s://)
	}

	driver, err := neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
	if err != nil {
		return types.WrapError(ErrCodeGraphConnectionFailed, "failed to create driver", err)
	}
	c.driver = driver

	var lastErr error
	for attempt := 0; attempt < c.config.ConnectRetries; attempt++ {
		lastErr = driver.VerifyConnectivity(ctx)
		if lastErr == nil {
			c.logger.Info("connected to graph database", "uri", c.config.URI, "attempts", attempt+1)
			return nil
		}

		c.logger.Debug("connectivity check failed", "attempt", attempt+1, "error", lastErr)

		if attempt == c.config.ConnectRetries-1 {
			break
		}

		// Calculate backoff delay: baseDelay * 2^attempt
		delay := connectBaseDelay * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.config.ConnectionTimeout {
			delay = c.config.ConnectionTimeout
		}

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("failed to verify connectivity after %d attempts", c.config.ConnectRetries), lastErr)
}

// Close releases all resources and closes the database connection.
func (c *Neo4jClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver == nil {
		return nil
	}

	err := c.driver.Close(ctx)
	c.driver = nil
	if err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed,
			"failed to close driver", err)
	}
	return nil
}

// Health runs LivenessQuery through the regular query path.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if _, err := c.run(healthCtx, AccessModeRead, LivenessQuery, nil); err != nil {
		return unhealthyFromError(err)
	}

	return types.Healthy("connected to Neo4j")
}

// unhealthyFromError builds the unhealthy status for a failed liveness probe.
func unhealthyFromError(err error) types.HealthStatus {
	if IsNotConnected(err) {
		return types.Unhealthy(notConnectedMessage)
	}
	var svcErr *types.ServiceError
	if errors.As(err, &svcErr) {
		return types.Unhealthy(svcErr.Detail())
	}
	return types.Unhealthy(err.Error())
}

// Query executes a read-mode Cypher query with the given parameters.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, AccessModeRead, cypher, params)
}

// Execute executes a write-mode Cypher query with the given parameters.
func (c *Neo4jClient) Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, AccessModeWrite, cypher, params)
}

// run is the single query boundary: one session, one auto-commit query, all
// rows collected, session closed on every path. Queries run auto-commit, so
// the driver never retries them.
func (c *Neo4jClient) run(ctx context.Context, mode AccessMode, cypher string, params map[string]any) (result QueryResult, err error) {
	ctx, span := c.tracer.Start(ctx, "graph.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "neo4j"),
			attribute.String("db.operation", mode.String()),
			attribute.String("db.statement", cypher),
		))
	spanCtx := ctx
	startTime := time.Now()
	defer func() {
		c.observe(spanCtx, mode, startTime, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "query failed")
		}
		span.End()
	}()

	c.mu.RLock()
	driver := c.driver
	c.mu.RUnlock()

	if driver == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.QueryTimeout)
	defer cancel()

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode.neo4jAccessMode(),
		DatabaseName: c.config.Database,
	})
	defer func() {
		// The query context may already be done; closing must still happen.
		closeCtx, closeCancel := context.WithTimeout(context.WithoutCancel(ctx), sessionCloseTimeout)
		defer closeCancel()
		if closeErr := session.Close(closeCtx); closeErr != nil {
			c.logger.Warn("failed to close session", "error", closeErr)
		}
	}()

	neoResult, err := session.Run(ctx, cypher, params)
	if err != nil {
		return QueryResult{}, classifyError(ctx, err)
	}

	keys, err := neoResult.Keys()
	if err != nil {
		return QueryResult{}, classifyError(ctx, err)
	}

	records, err := neoResult.Collect(ctx)
	if err != nil {
		return QueryResult{}, classifyError(ctx, err)
	}

	summary, err := neoResult.Consume(ctx)
	if err != nil {
		return QueryResult{}, classifyError(ctx, err)
	}

	result = convertNeo4jResult(keys, records, summary)
	result.Summary.ExecutionTime = time.Since(startTime)
	return result, nil
}

// observe records the query counter and latency histogram.
func (c *Neo4jClient) observe(ctx context.Context, mode AccessMode, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(types.CodeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", mode.String()),
		attribute.String("outcome", outcome),
	)
	c.queryCounter.Add(ctx, 1, attrs)
	c.queryDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// classifyError maps a driver error onto the graph error codes.
func classifyError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return types.WrapError(ErrCodeGraphQueryTimeout, "query timed out", err)
	case neo4j.IsConnectivityError(err):
		svcErr := types.WrapError(ErrCodeGraphConnectionLost, "lost connection to graph database", err)
		svcErr.Retryable = true
		return svcErr
	default:
		return types.WrapError(ErrCodeGraphQueryFailed, "query execution failed", err)
	}
}

func (m AccessMode) neo4jAccessMode() neo4j.AccessMode {
	if m == AccessModeWrite {
		return neo4j.AccessModeWrite
	}
	return neo4j.AccessModeRead
}

// convertNeo4jResult converts Neo4j records and summary to our QueryResult format.
func convertNeo4jResult(keys []string, records []*neo4j.Record, summary neo4j.ResultSummary) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: keys,
	}
	if result.Columns == nil {
		result.Columns = []string{}
	}

	for _, record := range records {
		recordMap := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		result.Records = append(result.Records, recordMap)
	}

	if summary != nil && summary.Counters() != nil {
		counters := summary.Counters()
		result.Summary = QuerySummary{
			NodesCreated:  counters.NodesCreated(),
			NodesDeleted:  counters.NodesDeleted(),
			PropertiesSet: counters.PropertiesSet(),
		}
	}

	return result
}
