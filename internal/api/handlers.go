package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/person"
	"github.com/gojideth/Docker-compose-networks/internal/types"
)

// Response messages.
const (
	msgNotConnected  = "Database connection not available. Check network configuration."
	msgStoreFailed   = "Database connection failed: "
	msgCreateFailed  = "Failed to create person"
	msgDecodeFailed  = "Failed to decode person"
	msgInternalError = "Internal server error"

	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
	databaseConnected     = "connected"
	databaseDisconnected  = "disconnected"
)

// PersonService is the person operations the handlers need.
type PersonService interface {
	Create(ctx context.Context) (person.Person, error)
	List(ctx context.Context) ([]person.Person, error)
}

// HealthChecker probes the database. It must not fail; problems are
// reported in the returned status.
type HealthChecker interface {
	Health(ctx context.Context) types.HealthStatus
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Handler serves the person and health endpoints.
type Handler struct {
	persons PersonService
	health  HealthChecker
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(persons PersonService, health HealthChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		persons: persons,
		health:  health,
		logger:  logger.With("component", "api"),
	}
}

// CreatePerson handles POST /persons.
func (h *Handler) CreatePerson(c *gin.Context) {
	p, err := h.persons.Create(c.Request.Context())
	if err != nil {
		h.writeError(c, "create person", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPersons handles GET /persons.
func (h *Handler) ListPersons(c *gin.Context) {
	persons, err := h.persons.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list persons", err)
		return
	}
	if persons == nil {
		persons = []person.Person{}
	}
	c.JSON(http.StatusOK, persons)
}

// Health handles GET /health. The status code is always 200.
func (h *Handler) Health(c *gin.Context) {
	status := h.health.Health(c.Request.Context())

	if status.IsHealthy() {
		c.JSON(http.StatusOK, HealthResponse{
			Status:   healthStatusHealthy,
			Database: databaseConnected,
		})
		return
	}

	h.logger.WarnContext(c.Request.Context(), "database health check failed", "error", status.Message)
	c.JSON(http.StatusOK, HealthResponse{
		Status:   healthStatusUnhealthy,
		Database: databaseDisconnected,
		Error:    status.Message,
	})
}

// writeError classifies err by code and writes the matching response.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()

	switch {
	case graph.IsNotConnected(err):
		h.logger.ErrorContext(ctx, "database operation failed", "op", op, "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: msgNotConnected})

	case graph.IsStoreUnavailable(err):
		h.logger.ErrorContext(ctx, "database operation failed",
			"op", op, "error", err, "retryable", types.IsRetryable(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: msgStoreFailed + detail(err)})

	case person.IsInternalFault(err):
		h.logger.ErrorContext(ctx, "person operation failed", "op", op, "error", err)
		msg := msgDecodeFailed
		if types.CodeOf(err) == person.ErrCodePersonCreateNoRecord {
			msg = msgCreateFailed
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: msg})

	default:
		h.logger.ErrorContext(ctx, "unexpected error", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: msgInternalError})
	}
}

// detail extracts the message worth showing a client from err.
func detail(err error) string {
	var svcErr *types.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Detail()
	}
	return err.Error()
}
