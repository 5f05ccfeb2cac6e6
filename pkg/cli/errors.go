package cli

import (
	"errors"
	"fmt"
)

// Process exit codes used by the mizan command.
const (
	// ExitOK indicates success.
	ExitOK = 0
	// ExitFailure indicates a policy denial, a validation failure, or a
	// journal integrity failure.
	ExitFailure = 1
	// ExitBadInput indicates malformed user input (unreadable files,
	// invalid JSON, missing arguments).
	ExitBadInput = 2
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

// ExitError wraps an error with the process exit code it should produce.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// InputError marks malformed user input. It maps to ExitBadInput.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %v", e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
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

// NewExitError creates a new ExitError.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{
		Code: code,
		Err:  err,
	}
}

// NewInputError creates a new InputError.
func NewInputError(input string, err error) *InputError {
	return &InputError{
		Input: input,
		Err:   err,
	}
}

// ExitCode resolves the process exit code for err. A nil error is ExitOK,
// an InputError anywhere in the chain is ExitBadInput, an ExitError carries
// its own code, and anything else is ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return ExitBadInput
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
