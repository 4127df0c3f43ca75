package config

import (
	"os"
)

// DefaultConfigPath is read when neither --config nor PERSONSVC_CONFIG is set.
const DefaultConfigPath = "/etc/personsvc/config.yaml"

// ConfigPathEnv names the environment variable that points at a config file.
const ConfigPathEnv = "PERSONSVC_CONFIG"

// ResolveConfigPath picks the config file path: the flag value, then
// $PERSONSVC_CONFIG, then DefaultConfigPath.
func ResolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		return env
	}
	return DefaultConfigPath
}
