package shell

import (
	"context"
	stderrors "errors"
	"io"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
)

// NewReader streams the content of p with cat. The command's exit status
// is checked when the content is exhausted.
func (f *FileSystem) NewReader(ctx context.Context, p Path) (io.ReadCloser, error) {
	if err := f.checkPath("read", p); err != nil {
		return nil, err
	}
	command := f.line("cat", p.quotedAbs())
	st, err := f.open(ctx, "cat", command)
	if err != nil {
		return nil, err
	}
	return &reader{fs: f, ctx: ctx, path: p, command: command, stream: st}, nil
}

type reader struct {
	fs      *FileSystem
	ctx     context.Context
	path    Path
	command string
	stream  exec.Stream

	once sync.Once
	err  error
	done bool
}

func (r *reader) Read(b []byte) (int, error) {
	if r.done {
		if err := r.finish(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	n, err := r.stream.Stdout().Read(b)
	if stderrors.Is(err, io.EOF) {
		r.done = true
		if ferr := r.finish(); ferr != nil {
			return n, ferr
		}
		return n, io.EOF
	}
	if err != nil {
		return n, errs.Transport(r.command, err)
	}
	return n, nil
}

// finish waits for cat to exit. A missing file surfaces here as NotFound.
func (r *reader) finish() error {
	r.once.Do(func() {
		res, err := r.stream.Wait()
		switch {
		case err != nil:
			r.err = errs.Transport(r.command, err)
		case res.ExitCode != 0:
			r.err = r.fs.disambiguate(r.ctx, "read", r.path, errs.CommandFailed(r.command, res))
		}
	})
	return r.err
}

// Close stops the command if it is still running.
func (r *reader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	r.once.Do(func() { r.err = errs.Closed("read", r.path.String()) })
	return r.stream.Close()
}

// NewWriter opens a stream that writes p with cat. Without options it
// behaves as OpenCreate, OpenTruncateExisting, and OpenWrite. OpenAppend
// without OpenTruncateExisting appends; otherwise the file is replaced.
//
// The returned writer's Close waits for the command and reports its exit
// status.
func (f *FileSystem) NewWriter(ctx context.Context, p Path, opts ...core.OpenOption) (io.WriteCloser, error) {
	if err := f.checkPath("write", p); err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		opts = []core.OpenOption{core.OpenCreate, core.OpenTruncateExisting, core.OpenWrite}
	}
	set := core.NewOpenOptions(opts...)
	switch {
	case set.Has(core.OpenRead):
		return nil, errors.New(errors.CodeInvalidInput, "read not allowed on an output stream")
	case !set.Has(core.OpenWrite) && !set.Has(core.OpenAppend):
		return nil, errors.New(errors.CodeInvalidInput, "output stream requires write")
	case set.Has(core.OpenDeleteOnClose):
		return nil, errs.Unsupported("write", p.String())
	}

	exists, err := f.Exists(ctx, p)
	if err != nil {
		return nil, err
	}
	switch {
	case exists && set.Has(core.OpenCreateNew):
		return nil, errs.AlreadyExists("write", p.String())
	case !exists && set.Has(core.OpenCreateNew):
		if err := f.createFile(ctx, p, createOptions{}); err != nil {
			return nil, err
		}
	case !exists && !set.Has(core.OpenCreate):
		return nil, errs.NotFound("write", p.String())
	}

	redirect := ">"
	if set.Has(core.OpenAppend) && !set.Has(core.OpenTruncateExisting) {
		redirect = ">>"
	}
	command := f.line("cat", redirect, p.quotedAbs())
	st, err := f.open(ctx, "cat", command)
	if err != nil {
		return nil, err
	}
	return &writer{path: p, command: command, stream: st}, nil
}

type writer struct {
	path    Path
	command string
	stream  exec.Stream
	closed  bool
}

func (w *writer) Write(b []byte) (int, error) {
	if w.closed {
		return 0, errs.Closed("write", w.path.String())
	}
	n, err := w.stream.Stdin().Write(b)
	if err != nil {
		return n, errs.Transport(w.command, err)
	}
	return n, nil
}

// Close ends the input and waits for cat to exit.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	res, err := w.stream.Wait()
	if err != nil {
		return errs.Transport(w.command, err)
	}
	if res.ExitCode != 0 {
		return errs.CommandFailed(w.command, res)
	}
	return nil
}
