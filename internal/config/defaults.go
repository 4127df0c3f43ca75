package config

import (
	"time"

	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
	"github.com/gojideth/Docker-compose-networks/pkg/version"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	neo4j := graph.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			ListenAddress:   ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:                   neo4j.URI,
			Username:              neo4j.Username,
			Password:              neo4j.Password,
			Database:              neo4j.Database,
			MaxConnectionPoolSize: neo4j.MaxConnectionPoolSize,
			ConnectionTimeout:     neo4j.ConnectionTimeout,
			QueryTimeout:          neo4j.QueryTimeout,
			ConnectRetries:        neo4j.ConnectRetries,
		},
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			Provider:    "otlp",
			Endpoint:    "localhost:4317",
			ServiceName: version.Name,
			SampleRate:  1.0,
		},
		Metrics: observability.MetricsConfig{
			Enabled:       false,
			Provider:      "prometheus",
			ListenAddress: ":9464",
			Path:          "/metrics",
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// setDefaults registers every default so that environment bindings and
// partial files resolve against them.
func setDefaults(v defaultSetter, cfg *Config) {
	v.SetDefault("server.listen_address", cfg.Server.ListenAddress)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("neo4j.uri", cfg.Neo4j.URI)
	v.SetDefault("neo4j.username", cfg.Neo4j.Username)
	v.SetDefault("neo4j.password", cfg.Neo4j.Password)
	v.SetDefault("neo4j.database", cfg.Neo4j.Database)
	v.SetDefault("neo4j.max_connection_pool_size", cfg.Neo4j.MaxConnectionPoolSize)
	v.SetDefault("neo4j.connection_timeout", cfg.Neo4j.ConnectionTimeout)
	v.SetDefault("neo4j.query_timeout", cfg.Neo4j.QueryTimeout)
	v.SetDefault("neo4j.connect_retries", cfg.Neo4j.ConnectRetries)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("tracing.enabled", cfg.Tracing.Enabled)
	v.SetDefault("tracing.provider", cfg.Tracing.Provider)
	v.SetDefault("tracing.endpoint", cfg.Tracing.Endpoint)
	v.SetDefault("tracing.service_name", cfg.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", cfg.Tracing.SampleRate)
	v.SetDefault("tracing.tls_cert_file", cfg.Tracing.TLSCertFile)
	v.SetDefault("tracing.insecure_mode", cfg.Tracing.InsecureMode)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.provider", cfg.Metrics.Provider)
	v.SetDefault("metrics.listen_address", cfg.Metrics.ListenAddress)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", cfg.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)
}

type defaultSetter interface {
	SetDefault(key string, value any)
}
