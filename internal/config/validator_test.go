package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "secure neo4j scheme", mutate: func(c *Config) { c.Neo4j.URI = "neo4j+ssc://db:7687" }},
		{name: "empty uri", mutate: func(c *Config) { c.Neo4j.URI = "" }, wantErr: "neo4j.uri is required"},
		{name: "http uri", mutate: func(c *Config) { c.Neo4j.URI = "http://db:7474" }, wantErr: "neo4j.uri must be a bolt://"},
		{name: "missing user", mutate: func(c *Config) { c.Neo4j.Username = "" }, wantErr: "neo4j.username is required"},
		{name: "zero retries", mutate: func(c *Config) { c.Neo4j.ConnectRetries = 0 }, wantErr: "neo4j.connect_retries must be at least 1"},
		{name: "bad listen address", mutate: func(c *Config) { c.Server.ListenAddress = "8000" }, wantErr: "server.listen_address must be a host:port"},
		{name: "metrics on api port", mutate: func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.ListenAddress = c.Server.ListenAddress
		}, wantErr: "metrics.listen_address must differ"},
		{name: "rate limit without rate", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 0
		}, wantErr: "rate_limit.requests_per_second"},
		{name: "tracing without endpoint", mutate: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = ""
		}, wantErr: "tracing: endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_Nil(t *testing.T) {
	assert.Error(t, NewValidator().Validate(nil))
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "uri", camelToSnake("URI"))
	assert.Equal(t, "rate_limit", camelToSnake("RateLimit"))
	assert.Equal(t, "max_connection_pool_size", camelToSnake("MaxConnectionPoolSize"))
	assert.Equal(t, "neo4j", camelToSnake("Neo4j"))
	assert.Equal(t, "tls_cert_file", camelToSnake("TLSCertFile"))
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "neo4j.query_timeout", formatFieldPath("Config.Neo4j.QueryTimeout"))
	assert.Equal(t, "Config", formatFieldPath("Config"))
}
