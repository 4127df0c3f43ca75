package observability

import (
	"fmt"
	"strings"
)

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Provider     string  `yaml:"provider" json:"provider" mapstructure:"provider"`
	Endpoint     string  `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`
	ServiceName  string  `yaml:"service_name" json:"service_name" mapstructure:"service_name"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	TLSCertFile  string  `yaml:"tls_cert_file" json:"tls_cert_file" mapstructure:"tls_cert_file"` // CA bundle used to verify the collector
	InsecureMode bool    `yaml:"insecure_mode" json:"insecure_mode" mapstructure:"insecure_mode"` // plaintext gRPC
}

// Validate validates the TracingConfig fields.
// Returns an error if Provider is not otlp or noop, if SampleRate is outside
// [0, 1], or if an otlp provider has no endpoint.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	validProviders := []string{"otlp", "noop"}
	provider := strings.ToLower(c.Provider)
	if !contains(validProviders, provider) {
		return fmt.Errorf("invalid tracing provider: %s (must be one of: %s)", c.Provider, strings.Join(validProviders, ", "))
	}

	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("invalid sample rate: %f (must be between 0.0 and 1.0)", c.SampleRate)
	}

	if provider != "noop" && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when tracing is enabled")
	}

	return nil
}

// MetricsConfig contains metrics export configuration.
// Metrics are served for scraping on their own listener, apart from the API.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Provider      string `yaml:"provider" json:"provider" mapstructure:"provider"`
	ListenAddress string `yaml:"listen_address" json:"listen_address" mapstructure:"listen_address"`
	Path          string `yaml:"path" json:"path" mapstructure:"path"`
}

// Validate validates the MetricsConfig fields.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.ToLower(c.Provider) != "prometheus" {
		return fmt.Errorf("invalid metrics provider: %s (must be one of: prometheus)", c.Provider)
	}

	if c.ListenAddress == "" {
		return fmt.Errorf("listen address is required when metrics are enabled")
	}

	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("invalid metrics path: %q (must start with '/')", c.Path)
	}

	return nil
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
	Output string `yaml:"output" json:"output" mapstructure:"output"`
}

// Validate validates the LoggingConfig fields.
// Returns an error if Level is not debug, info, warn or error, if Format is
// not json or text, or if Output is not stdout, stderr or an absolute path.
func (c *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.Level)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Level, strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.Format, strings.Join(validFormats, ", "))
	}

	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	output := strings.ToLower(c.Output)
	if output != "stdout" && output != "stderr" && !strings.HasPrefix(c.Output, "/") {
		return fmt.Errorf("invalid log output: %s (must be 'stdout', 'stderr', or an absolute file path)", c.Output)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
