package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GlobalFlags holds global flags available to all commands
type GlobalFlags struct {
	Verbose    bool
	ConfigFile string
	LogFormat  string
}

var globalFlags = &GlobalFlags{}

// RegisterGlobalFlags registers persistent flags on the root command
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (default: $PERSONSVC_CONFIG or /etc/personsvc/config.yaml)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "", "Override the log format (json|text)")
}

// ParseGlobalFlags validates global flags from the command
func ParseGlobalFlags(cmd *cobra.Command) (*GlobalFlags, error) {
	switch globalFlags.LogFormat {
	case "", "json", "text":
	default:
		return nil, fmt.Errorf("invalid --log-format %q (must be json or text)", globalFlags.LogFormat)
	}
	return globalFlags, nil
}

// IsVerbose returns true if verbose mode is enabled
func (f *GlobalFlags) IsVerbose() bool {
	return f.Verbose
}

// ConfigFileExplicit reports whether the config path was given on the command line.
func (f *GlobalFlags) ConfigFileExplicit() bool {
	return f.ConfigFile != ""
}
