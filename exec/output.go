package exec

import (
	"bytes"
	"sync"
)

// capture records stdout and stderr separately and interleaved.
// Both halves may be written from different goroutines.
type capture struct {
	mu       sync.Mutex
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	combined bytes.Buffer
}

// captureWriter is one half of a capture.
type captureWriter struct {
	c   *capture
	dst *bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	w.dst.Write(p)
	return w.c.combined.Write(p)
}

// Stdout returns the writer for standard output.
func (c *capture) Stdout() *captureWriter {
	return &captureWriter{c: c, dst: &c.stdout}
}

// Stderr returns the writer for standard error.
func (c *capture) Stderr() *captureWriter {
	return &captureWriter{c: c, dst: &c.stderr}
}

// Result snapshots the captured output.
func (c *capture) Result(exitCode int) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Result{
		Stdout:   c.stdout.String(),
		Stderr:   c.stderr.String(),
		Combined: c.combined.String(),
		ExitCode: exitCode,
	}
}
