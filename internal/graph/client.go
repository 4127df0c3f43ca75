package graph

import (
	"context"
	"time"

	"github.com/gojideth/Docker-compose-networks/internal/types"
)

// GraphClient provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access.
type GraphClient interface {
	// Connect establishes a connection to the graph database.
	// Returns an error if connection fails.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	// Should be called when the client is no longer needed.
	Close(ctx context.Context) error

	// Health runs a liveness query and reports the outcome. It never fails;
	// an unreachable database yields an unhealthy status.
	Health(ctx context.Context) types.HealthStatus

	// Query executes one read-mode Cypher query with the given parameters
	// and returns every result row.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Execute executes one write-mode Cypher query with the given parameters
	// and returns every result row.
	Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// AccessMode selects the session access mode a query runs under.
type AccessMode int

const (
	// AccessModeRead routes the query to a reader.
	AccessModeRead AccessMode = iota
	// AccessModeWrite routes the query to the leader.
	AccessModeWrite
)

// String returns the metric/trace label for the mode.
func (m AccessMode) String() string {
	if m == AccessModeWrite {
		return "write"
	}
	return "read"
}

// QueryResult represents the result of a Cypher query execution.
// It provides access to records, columns, and summary information.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value,
	// in the order the database returned them.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// Single returns the first record, reporting false when the result is empty.
func (r QueryResult) Single() (map[string]any, bool) {
	if len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	// ExecutionTime is the duration of query execution.
	ExecutionTime time.Duration

	// NodesCreated is the number of nodes created by the query.
	NodesCreated int

	// NodesDeleted is the number of nodes deleted by the query.
	NodesDeleted int

	// PropertiesSet is the number of properties set.
	PropertiesSet int
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use:
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "bolt+ssc://host:port" for TLS with self-signed certificates
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Database name to connect to.
	// Empty string uses the default database.
	Database string

	// MaxConnectionPoolSize limits the number of connections in the pool.
	// Zero or negative values use the driver default.
	MaxConnectionPoolSize int

	// ConnectionTimeout is the maximum time to wait for a pooled connection,
	// and caps the backoff between connect attempts.
	ConnectionTimeout time.Duration

	// QueryTimeout bounds every query, including the session acquisition.
	QueryTimeout time.Duration

	// ConnectRetries is the number of connectivity checks Connect performs
	// before giving up.
	ConnectRetries int
}

// DefaultConfig returns a GraphClientConfig with sensible defaults.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                   "bolt://localhost:7687",
		Username:              "neo4j",
		Password:              "password",
		Database:              "",
		MaxConnectionPoolSize: 50,
		ConnectionTimeout:     30 * time.Second,
		QueryTimeout:          10 * time.Second,
		ConnectRetries:        5,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.QueryTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "QueryTimeout must be positive")
	}
	if c.ConnectRetries < 1 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectRetries must be at least 1")
	}
	return nil
}
