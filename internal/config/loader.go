package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them.
// The NEO4J_* names are the ones the container deployment already sets.
var envBindings = map[string]string{
	"neo4j.uri":              "NEO4J_URI",
	"neo4j.username":         "NEO4J_USER",
	"neo4j.password":         "NEO4J_PASSWORD",
	"neo4j.database":         "NEO4J_DATABASE",
	"server.listen_address":  "PERSONSVC_LISTEN_ADDRESS",
	"logging.level":          "PERSONSVC_LOG_LEVEL",
	"logging.format":         "PERSONSVC_LOG_FORMAT",
	"metrics.enabled":        "PERSONSVC_METRICS_ENABLED",
	"metrics.listen_address": "PERSONSVC_METRICS_LISTEN_ADDRESS",
	"tracing.enabled":        "PERSONSVC_TRACING_ENABLED",
	"tracing.endpoint":       "PERSONSVC_TRACING_ENDPOINT",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ConfigLoader handles loading configuration from files and the environment.
type ConfigLoader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper.
type viperConfigLoader struct {
	validator ConfigValidator
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader(validator ConfigValidator) ConfigLoader {
	return &viperConfigLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified file path, layered over the
// defaults and under the environment. Returns an error if the file doesn't
// exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	return l.load(path, true)
}

// LoadWithDefaults is Load, except that a missing file (or an empty path)
// yields the defaults with environment overrides applied.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	return l.load(path, false)
}

func (l *viperConfigLoader) load(path string, requireFile bool) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
				fmt.Sprintf("failed to bind %s", env), err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			switch {
			case isNotExist(err) && !requireFile:
				// defaults and environment only
			case isNotExist(err):
				return nil, types.WrapError(types.CONFIG_NOT_FOUND,
					fmt.Sprintf("config file %s not found", path), err)
			default:
				return nil, types.WrapError(types.CONFIG_PARSE_FAILED,
					"failed to read config file", err)
			}
		}
	} else if requireFile {
		return nil, types.NewError(types.CONFIG_NOT_FOUND, "no config file given")
	}

	// Interpolate ${VAR} references after every layer has been merged.
	for _, key := range v.AllKeys() {
		if s, ok := v.Get(key).(string); ok && strings.Contains(s, "${") {
			v.Set(key, interpolateString(s))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "configuration validation failed", err)
	}

	return &cfg, nil
}

// isNotExist reports whether a viper read error means the file is missing.
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as written.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue, ok := os.LookupEnv(varName); ok && envValue != "" {
			return envValue
		}
		return match
	})
}
