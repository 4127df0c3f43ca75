package graph

import (
	"context"
	"sync"
	"time"

	"github.com/gojideth/Docker-compose-networks/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Args      []interface{}
	Timestamp time.Time
}

// QueryFunc computes the response for a Query or Execute call on MockGraphClient.
type QueryFunc func(mode AccessMode, cypher string, params map[string]any) (QueryResult, error)

// MockGraphClient is a mock implementation of GraphClient for testing.
// It provides configurable responses and tracks all method calls for verification.
type MockGraphClient struct {
	mu sync.RWMutex

	// State
	connected bool
	calls     []MockCall

	// Configurable responses
	queryResults []QueryResult
	queryFunc    QueryFunc
	queryError   error
	connectError error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		connected:    false,
		calls:        make([]MockCall, 0),
		queryResults: make([]QueryResult, 0),
	}
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Connect")

	if m.connectError != nil {
		return m.connectError
	}

	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close")

	m.connected = false
	return nil
}

// Health records the call and reports healthy while connected.
// A configured query error makes the probe fail the way the real client does.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health")

	if !m.connected {
		return types.Unhealthy(notConnectedMessage)
	}
	if m.queryError != nil {
		return unhealthyFromError(m.queryError)
	}

	return types.Healthy("mock graph client")
}

// Query records the call and returns the configured query results.
func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.run("Query", AccessModeRead, cypher, params)
}

// Execute records the call and returns the configured query results.
func (m *MockGraphClient) Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.run("Execute", AccessModeWrite, cypher, params)
}

func (m *MockGraphClient) run(method string, mode AccessMode, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(method, cypher, params)

	if !m.connected {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed,
			"not connected")
	}

	if m.queryError != nil {
		return QueryResult{}, m.queryError
	}

	if m.queryFunc != nil {
		return m.queryFunc(mode, cypher, params)
	}

	// Return the first configured result (FIFO)
	if len(m.queryResults) > 0 {
		result := m.queryResults[0]
		m.queryResults = m.queryResults[1:]
		return result, nil
	}

	return QueryResult{
		Records: []map[string]any{},
		Columns: []string{},
	}, nil
}

// record appends a call; m.mu must be held.
func (m *MockGraphClient) record(method string, args ...interface{}) {
	if args == nil {
		args = []interface{}{}
	}
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// SetQueryResults configures what Query() and Execute() return (FIFO queue).
func (m *MockGraphClient) SetQueryResults(results []QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = results
}

// AddQueryResult adds a single query result to the queue.
func (m *MockGraphClient) AddQueryResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = append(m.queryResults, result)
}

// SetQueryFunc installs a function that answers every query. It takes
// precedence over queued results. The function runs with the mock locked.
func (m *MockGraphClient) SetQueryFunc(fn QueryFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryFunc = fn
}

// SetConnectError configures Connect() to return an error.
func (m *MockGraphClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetQueryError configures Query(), Execute() and Health() to fail.
func (m *MockGraphClient) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
}

// GetCalls returns all recorded method calls.
func (m *MockGraphClient) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// GetCallsByMethod returns all calls to a specific method.
func (m *MockGraphClient) GetCallsByMethod(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, 0)
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns the total number of method calls.
func (m *MockGraphClient) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// IsConnected returns whether the mock is in connected state.
func (m *MockGraphClient) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Reset clears all recorded calls and resets the mock to its initial state.
func (m *MockGraphClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	m.calls = make([]MockCall, 0)
	m.queryResults = make([]QueryResult, 0)
	m.queryFunc = nil
	m.queryError = nil
	m.connectError = nil
}

var _ GraphClient = (*MockGraphClient)(nil)
var _ GraphClient = (*Neo4jClient)(nil)
