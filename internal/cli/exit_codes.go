package cli

import "errors"

// Exit codes support scripting and CI composition.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generic failure
	ExitFailure = 1

	// ExitValidationFailed indicates the generated configuration failed validation
	ExitValidationFailed = 2

	// ExitAbandoned indicates the user abandoned the interactive flow
	ExitAbandoned = 3

	// ExitUnresolved indicates the request could not be resolved to a resource type
	ExitUnresolved = 4

	// ExitMissingDependencies indicates required dependencies are missing
	ExitMissingDependencies = 5
)

// exitError carries an exit code through the cobra error path.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "exit"
}

func (e *exitError) Unwrap() error { return e.err }

// NewExitError wraps err with an explicit process exit code.
func NewExitError(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode extracts the exit code from an error chain, defaulting to 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}
