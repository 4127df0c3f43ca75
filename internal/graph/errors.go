package graph

import (
	"errors"

	"github.com/gojideth/Docker-compose-networks/internal/types"
)

// Graph database error codes
const (
	// Connection errors
	ErrCodeGraphConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionLost   types.ErrorCode = "GRAPH_CONNECTION_LOST"
	ErrCodeGraphConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"

	// Configuration errors
	ErrCodeGraphInvalidConfig types.ErrorCode = "GRAPH_INVALID_CONFIG"

	// Query errors
	ErrCodeGraphQueryFailed  types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeGraphQueryTimeout types.ErrorCode = "GRAPH_QUERY_TIMEOUT"
)

// IsStoreUnavailable reports whether err means the graph database could not
// be reached or could not run the query. Every failure of the query boundary
// falls in this class.
func IsStoreUnavailable(err error) bool {
	var svcErr *types.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	switch svcErr.Code {
	case ErrCodeGraphConnectionFailed,
		ErrCodeGraphConnectionLost,
		ErrCodeGraphConnectionClosed,
		ErrCodeGraphQueryFailed,
		ErrCodeGraphQueryTimeout:
		return true
	default:
		return false
	}
}

// IsNotConnected reports whether err came from a client that holds no driver,
// either because Connect never produced one or because Close was called.
func IsNotConnected(err error) bool {
	return types.CodeOf(err) == ErrCodeGraphConnectionClosed
}
