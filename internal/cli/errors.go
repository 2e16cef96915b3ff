package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure with a specific exit code.
//
// Commands return it from RunE after printing their own message, so the
// error text itself is never shown. [Run] turns it into [ExecuteResult.ExitCode]
// and only [Execute] calls os.Exit, which keeps commands testable.
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int
}

// Error returns "exit status N", matching os/exec.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is or wraps an [ExitError] and returns its
// code.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
