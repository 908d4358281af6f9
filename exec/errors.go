package exec

import (
	"fmt"
	"strings"
)

// ExecError describes a remote command that exited with a status its caller
// could not map to a more specific failure.
type ExecError struct {
	// Command is the full command line that was executed
	Command string

	// ExitCode is the exit code returned by the command
	ExitCode int

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying error, if any
	Err error
}

// NewExecError builds an ExecError from a finished command.
func NewExecError(command string, res *Result) *ExecError {
	e := &ExecError{Command: command, ExitCode: -1}
	if res != nil {
		e.ExitCode = res.ExitCode
		e.Stdout = res.Stdout
		e.Stderr = res.Stderr
	}
	return e
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("`%s` failed with exit code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
