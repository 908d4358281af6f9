package exec

import (
	"context"
	"errors"
	"io"
	osexec "os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// LocalSession runs command lines through a local shell. It is used for
// development against the local machine and in tests.
type LocalSession struct {
	config *localConfig
	closed atomic.Bool
}

// NewLocal creates a LocalSession with the given options.
func NewLocal(opts ...LocalOption) *LocalSession {
	cfg := newLocalConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &LocalSession{config: cfg}
}

func (s *LocalSession) command(ctx context.Context, command string) *osexec.Cmd {
	cmd := osexec.CommandContext(ctx, s.config.shell, "-c", command)
	cmd.Dir = s.config.dir
	cmd.Env = s.config.environ()
	// Children of the shell may hold the output pipes open after it exits.
	cmd.WaitDelay = time.Second
	return cmd
}

// Execute runs command to completion.
func (s *LocalSession) Execute(ctx context.Context, command string) (*Result, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	out := &capture{}
	cmd := s.command(ctx, command)
	cmd.Stdout = out.Stdout()
	cmd.Stderr = out.Stderr()

	code, err := exitStatus(ctx, cmd.Run())
	if err != nil {
		return nil, err
	}
	return out.Result(code), nil
}

// Open starts command with piped stdin and stdout.
func (s *LocalSession) Open(ctx context.Context, command string) (Stream, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	out := &capture{}
	cmd := s.command(ctx, command)
	cmd.Stderr = out.Stderr()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &localStream{ctx: ctx, cmd: cmd, stdin: stdin, stdout: stdout, out: out}, nil
}

// Duplicate returns a new LocalSession with the same configuration.
func (s *LocalSession) Duplicate(context.Context) (Session, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	return &LocalSession{config: s.config}, nil
}

// Close marks the session closed. Running streams are unaffected.
func (s *LocalSession) Close() error {
	s.closed.Store(true)
	return nil
}

type localStream struct {
	ctx    context.Context
	cmd    *osexec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	out    *capture

	once   sync.Once
	result *Result
	err    error
}

func (s *localStream) Stdin() io.WriteCloser { return s.stdin }
func (s *localStream) Stdout() io.Reader     { return s.stdout }

func (s *localStream) Wait() (*Result, error) {
	s.once.Do(func() {
		_ = s.stdin.Close()
		var code int
		code, s.err = exitStatus(s.ctx, s.cmd.Wait())
		if s.err == nil {
			s.result = s.out.Result(code)
		}
	})
	return s.result, s.err
}

func (s *localStream) Close() error {
	// Kill reports os.ErrProcessDone once the process has been reaped.
	_ = s.cmd.Process.Kill()
	_, _ = s.Wait()
	return nil
}

// exitStatus separates a command's exit status from a failure to run it.
func exitStatus(ctx context.Context, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

var _ Session = (*LocalSession)(nil)
