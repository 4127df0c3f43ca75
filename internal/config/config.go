package config

import (
	"time"

	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/observability"
)

// RedactedPassword replaces secrets in Redacted output.
const RedactedPassword = "********"

// Config is the root configuration for personsvc.
type Config struct {
	Server    ServerConfig                `mapstructure:"server" yaml:"server" json:"server"`
	Neo4j     Neo4jConfig                 `mapstructure:"neo4j" yaml:"neo4j" json:"neo4j"`
	Logging   observability.LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Tracing   observability.TracingConfig `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
	Metrics   observability.MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	RateLimit RateLimitConfig             `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// ServerConfig contains the HTTP API listener settings.
type ServerConfig struct {
	ListenAddress   string        `mapstructure:"listen_address" yaml:"listen_address" json:"listen_address" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout" validate:"min=1s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"min=1s"`
}

// Neo4jConfig contains the graph database connection settings.
type Neo4jConfig struct {
	URI                   string        `mapstructure:"uri" yaml:"uri" json:"uri" validate:"required,neo4j_uri"`
	Username              string        `mapstructure:"username" yaml:"username" json:"username" validate:"required"`
	Password              string        `mapstructure:"password" yaml:"password" json:"password" validate:"required"`
	Database              string        `mapstructure:"database" yaml:"database,omitempty" json:"database,omitempty"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size" yaml:"max_connection_pool_size" json:"max_connection_pool_size" validate:"min=1,max=1000"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout" json:"connection_timeout" validate:"min=100ms"`
	QueryTimeout          time.Duration `mapstructure:"query_timeout" yaml:"query_timeout" json:"query_timeout" validate:"min=10ms"`
	ConnectRetries        int           `mapstructure:"connect_retries" yaml:"connect_retries" json:"connect_retries" validate:"min=1,max=20"`
}

// RateLimitConfig bounds the request rate accepted by the HTTP API.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" yaml:"burst" json:"burst" validate:"gte=0"`
}

// GraphClientConfig converts the section into the graph client's configuration.
func (c Neo4jConfig) GraphClientConfig() graph.GraphClientConfig {
	return graph.GraphClientConfig{
		URI:                   c.URI,
		Username:              c.Username,
		Password:              c.Password,
		Database:              c.Database,
		MaxConnectionPoolSize: c.MaxConnectionPoolSize,
		ConnectionTimeout:     c.ConnectionTimeout,
		QueryTimeout:          c.QueryTimeout,
		ConnectRetries:        c.ConnectRetries,
	}
}

// Redacted returns a copy of cfg that is safe to print.
func (c Config) Redacted() Config {
	if c.Neo4j.Password != "" {
		c.Neo4j.Password = RedactedPassword
	}
	return c
}
