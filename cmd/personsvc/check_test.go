package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gojideth/Docker-compose-networks/cmd/personsvc/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	var cliErr *internal.CLIError
	require.True(t, errors.As(err, &cliErr), "expected a CLIError, got %v", err)
	return cliErr.Code
}

func disableColor(t *testing.T) {
	t.Helper()
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func TestRunCheck(t *testing.T) {
	disableColor(t)
	client := &http.Client{Timeout: 2 * time.Second}

	t.Run("healthy", func(t *testing.T) {
		srv := healthServer(t, http.StatusOK, `{"status":"healthy","database":"connected"}`)

		var out bytes.Buffer
		err := runCheck(context.Background(), &out, client, srv.URL+"/")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "status: healthy")
		assert.Contains(t, out.String(), "database: connected")
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := healthServer(t, http.StatusOK,
			`{"status":"unhealthy","database":"disconnected","error":"Cannot connect to Neo4j database"}`)

		var out bytes.Buffer
		err := runCheck(context.Background(), &out, client, srv.URL)

		require.Error(t, err)
		assert.Equal(t, internal.ExitUnhealthy, exitCodeOf(t, err))
		assert.Contains(t, out.String(), "error: Cannot connect to Neo4j database")
	})

	t.Run("unexpected status code", func(t *testing.T) {
		srv := healthServer(t, http.StatusServiceUnavailable, `{}`)

		err := runCheck(context.Background(), &bytes.Buffer{}, client, srv.URL)

		require.Error(t, err)
		assert.Equal(t, internal.ExitError, exitCodeOf(t, err))
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := healthServer(t, http.StatusOK, `not json`)

		err := runCheck(context.Background(), &bytes.Buffer{}, client, srv.URL)

		require.Error(t, err)
		assert.Equal(t, internal.ExitError, exitCodeOf(t, err))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := runCheck(context.Background(), &bytes.Buffer{}, client, url)

		require.Error(t, err)
		assert.Equal(t, internal.ExitError, exitCodeOf(t, err))
	})

	t.Run("invalid url", func(t *testing.T) {
		err := runCheck(context.Background(), &bytes.Buffer{}, client, "http://[::1")

		require.Error(t, err)
		assert.Equal(t, internal.ExitConfigError, exitCodeOf(t, err))
	})
}

func TestFormatStatus(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	color.NoColor = true
	assert.Equal(t, "healthy", formatStatus("healthy"))
	assert.Equal(t, "unhealthy", formatStatus("unhealthy"))

	color.NoColor = false
	assert.Contains(t, formatStatus("healthy"), "\x1b[32m")
	assert.Contains(t, formatStatus("unhealthy"), "\x1b[31")
}
