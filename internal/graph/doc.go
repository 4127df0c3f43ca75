// Package graph is the query boundary between the service and its Neo4j store.
//
// # Architecture
//
//   - GraphClient: interface the rest of the service depends on
//   - Neo4jClient: production implementation using the Neo4j Go driver
//   - MockGraphClient: recording test double
//
// # Usage
//
//	config := graph.DefaultConfig()
//	config.URI = "bolt://neo4j:7687"
//
//	client, err := graph.NewNeo4jClient(config)
//	if err != nil {
//	    return err
//	}
//
//	if err := client.Connect(ctx); err != nil {
//	    slog.Warn("graph database not reachable yet", "error", err)
//	}
//	defer client.Close(ctx)
//
//	result, err := client.Execute(ctx,
//	    "CREATE (p:Person {name: $name, age: $age}) RETURN p.name AS name, p.age AS age",
//	    map[string]any{"name": "Alice", "age": 30},
//	)
//
// # Query Boundary
//
// Every Query or Execute call opens one session from the driver's pool, runs
// exactly one auto-commit query under the configured QueryTimeout, collects
// all rows into memory, and closes the session on every return path. Nothing
// is retried. Sessions are never shared between calls.
//
// # Error Handling
//
// All failures are *types.ServiceError values with one of these codes:
//
//   - ErrCodeGraphConnectionClosed: no driver (never connected, or closed)
//   - ErrCodeGraphConnectionLost: driver connectivity error
//   - ErrCodeGraphQueryTimeout: QueryTimeout or the caller's deadline elapsed
//   - ErrCodeGraphQueryFailed: anything else the driver or server reported
//
// IsStoreUnavailable reports true for all of them.
//
// # Health Monitoring
//
// Health runs LivenessQuery through the same boundary and never fails:
//
//	status := client.Health(ctx)
//	if !status.IsHealthy() {
//	    slog.Warn("graph database unhealthy", "error", status.Message)
//	}
package graph
