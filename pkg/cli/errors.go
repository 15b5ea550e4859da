package cli

import (
	"errors"
	"fmt"

	"mercator-hq/prometools/pkg/config"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrors converts the field errors of a config.ValidationError found
// in err's chain. It returns nil when err carries none.
func ConfigErrors(err error) []*ConfigError {
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	out := make([]*ConfigError, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		out = append(out, NewConfigError(fe.Field, fe.Message))
	}
	return out
}

// ExitCode maps an error returned by a command to a process exit code.
// Configuration problems exit with ExitConfig, everything else with
// ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cerr *ConfigError
	var verr config.ValidationError
	if errors.As(err, &cerr) || errors.As(err, &verr) {
		return ExitConfig
	}
	return ExitError
}
