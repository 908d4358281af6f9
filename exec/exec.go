package exec

import (
	"context"
	"io"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/session.go -pkg mocks . Session Stream

// Session runs shell command lines against one target.
//
// Implementations must treat a nonzero exit status as a normal result; the
// returned error is reserved for transport failures (broken connection,
// closed session, cancelled context).
type Session interface {
	// Execute runs command to completion and returns its buffered output.
	Execute(ctx context.Context, command string) (*Result, error)

	// Open starts command and returns its live stdin/stdout.
	// The caller must Close the stream.
	Open(ctx context.Context, command string) (Stream, error)

	// Duplicate returns an independent session against the same target with
	// the same credentials. Closing either session does not affect the other.
	Duplicate(ctx context.Context) (Session, error)

	// Close releases the session.
	Close() error
}

// Stream is a running command opened with Session.Open.
type Stream interface {
	// Stdin is the command's standard input. Closing it signals EOF.
	Stdin() io.WriteCloser

	// Stdout is the command's standard output.
	Stdout() io.Reader

	// Wait closes stdin, waits for the command to exit and returns its exit
	// status along with anything written to stderr.
	Wait() (*Result, error)

	// Close aborts the command if it is still running and releases the
	// underlying channel. It is safe to call after Wait.
	Close() error
}

// Result represents the result of a command execution.
type Result struct {
	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Combined is the combined stdout and stderr output
	Combined string

	// ExitCode is the exit code returned by the command
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}
