package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gojideth/Docker-compose-networks/internal/config"
	"github.com/gojideth/Docker-compose-networks/internal/person"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockPersonService struct {
	mock.Mock
}

func (m *mockPersonService) Create(ctx context.Context) (person.Person, error) {
	args := m.Called(ctx)
	return args.Get(0).(person.Person), args.Error(1)
}

func (m *mockPersonService) List(ctx context.Context) ([]person.Person, error) {
	args := m.Called(ctx)
	persons, _ := args.Get(0).([]person.Person)
	return persons, args.Error(1)
}

type mockHealthChecker struct {
	mock.Mock
}

func (m *mockHealthChecker) Health(ctx context.Context) types.HealthStatus {
	return m.Called(ctx).Get(0).(types.HealthStatus)
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ListenAddress:   "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func newTestServer(t *testing.T, persons PersonService, health HealthChecker, opts ...Option) *Server {
	t.Helper()
	srv, err := NewServer(testServerConfig(), persons, health, opts...)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
