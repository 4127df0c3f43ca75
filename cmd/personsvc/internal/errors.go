// Package internal holds CLI plumbing shared by the personsvc commands.
package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/spf13/cobra"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitUnhealthy indicates a health check reported the service unhealthy
	ExitUnhealthy = 2
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
	// ExitDatabaseError indicates a database error
	ExitDatabaseError = 12
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewCLIError creates a new CLIError with the given code and message
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// HandleError prints err to the command's error output and returns the
// exit code for it.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cmd.PrintErrln("Error:", cliErr.Message)
		if cliErr.Cause != nil && verboseFlagSet(cmd) {
			cmd.PrintErrln("Cause:", cliErr.Cause)
		}
		return cliErr.Code
	}

	var svcErr *types.ServiceError
	if errors.As(err, &svcErr) {
		cmd.PrintErrln("Error:", svcErr.Error())
		return mapServiceErrorToExitCode(svcErr)
	}

	cmd.PrintErrln("Error:", err)
	return ExitError
}

// mapServiceErrorToExitCode maps ServiceError codes to CLI exit codes
func mapServiceErrorToExitCode(err *types.ServiceError) int {
	switch err.Code {
	case types.CONFIG_LOAD_FAILED,
		types.CONFIG_PARSE_FAILED,
		types.CONFIG_VALIDATION_FAILED,
		types.CONFIG_NOT_FOUND,
		graph.ErrCodeGraphInvalidConfig:
		return ExitConfigError
	case graph.ErrCodeGraphQueryTimeout:
		return ExitTimeout
	}
	if graph.IsStoreUnavailable(err) {
		return ExitDatabaseError
	}
	return ExitError
}

// IsVerbose checks if verbose mode is enabled via environment variable or flag.
// It is used by panic recovery, before flags are parsed.
func IsVerbose() bool {
	if os.Getenv("PERSONSVC_VERBOSE") != "" {
		return true
	}

	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}

	return false
}

func verboseFlagSet(cmd *cobra.Command) bool {
	verboseFlag := cmd.Flag("verbose")
	return verboseFlag != nil && verboseFlag.Changed
}
