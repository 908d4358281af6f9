package shell

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
)

// Channel is a seekable byte channel over one remote file. Each Read and
// Write runs its own dd command at the current position.
//
// The channel tracks the file size itself: it is read once at open and
// grows only when a read or write moves the position past it. Writers
// outside the channel are not observed.
//
// The context given to OpenChannel is kept for the channel's lifetime.
// Once it is done, Read, Write, and Truncate fail with its error while
// Seek and Close keep working.
//
// A Channel is not safe for concurrent use.
type Channel struct {
	fs   *FileSystem
	ctx  context.Context
	path Path

	readable bool
	writable bool
	append   bool

	position int64
	size     int64
	closed   bool
}

// OpenChannel opens p. Without options the channel is read-only.
// OpenCreateNew fails when p exists, OpenCreate creates p when absent, and
// otherwise a missing p is NotFound. OpenTruncateExisting empties an
// existing file opened for writing.
//
// ctx bounds every command the channel runs, including those of later
// Read, Write, and Truncate calls. Pass a context that outlives the
// channel rather than a per-request one.
func (f *FileSystem) OpenChannel(ctx context.Context, p Path, opts ...core.OpenOption) (*Channel, error) {
	if err := f.checkPath("open", p); err != nil {
		return nil, err
	}
	set := core.NewOpenOptions(opts...)
	if set.Has(core.OpenDeleteOnClose) {
		return nil, errs.Unsupported("open", p.String())
	}

	c := &Channel{
		fs:       f,
		ctx:      ctx,
		path:     p.ToAbsolute(),
		readable: len(set) == 0 || set.Has(core.OpenRead),
		writable: set.Has(core.OpenWrite) || set.Has(core.OpenAppend),
		append:   set.Has(core.OpenAppend),
	}

	exists, err := f.Exists(ctx, p)
	if err != nil {
		return nil, err
	}

	create := false
	switch {
	case set.Has(core.OpenCreateNew):
		if exists {
			return nil, errs.AlreadyExists("open", p.String())
		}
		create = true
	case set.Has(core.OpenCreate):
		create = !exists
	case !exists:
		return nil, errs.NotFound("open", p.String())
	}

	if create {
		if err := f.createFile(ctx, c.path, createOptions{}); err != nil {
			return nil, err
		}
	}

	attrs, err := f.ReadPosixAttributes(ctx, c.path)
	if err != nil {
		return nil, err
	}
	c.size = attrs.Size

	if exists && c.writable && set.Has(core.OpenTruncateExisting) && c.size > 0 {
		if err := c.truncateRemote(0); err != nil {
			return nil, err
		}
		c.size = 0
	}
	return c, nil
}

// Path returns the absolute path of the file.
func (c *Channel) Path() Path { return c.path }

// Position returns the current offset.
func (c *Channel) Position() int64 { return c.position }

// Size returns the size tracked by the channel.
func (c *Channel) Size() int64 { return c.size }

// IsOpen reports whether Close has not been called.
func (c *Channel) IsOpen() bool { return !c.closed }

// Read reads up to len(b) bytes at the current position. It returns io.EOF
// once the position reaches the tracked size.
func (c *Channel) Read(b []byte) (int, error) {
	if err := c.check("read", c.readable, core.ErrNotReadable); err != nil {
		return 0, err
	}
	if c.position >= c.size {
		return 0, io.EOF
	}
	if len(b) == 0 {
		return 0, nil
	}

	command := c.fs.line("dd", "bs=1",
		"skip="+strconv.FormatInt(c.position, 10),
		"count="+strconv.Itoa(len(b)),
		"if="+c.path.Quoted(),
		"2> /dev/null",
	)
	st, err := c.fs.open(c.ctx, "dd", command)
	if err != nil {
		return 0, err
	}

	n, readErr := io.ReadFull(st.Stdout(), b)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		_ = st.Close()
		return n, errs.Transport(command, readErr)
	}

	res, err := st.Wait()
	if err != nil {
		return n, errs.Transport(command, err)
	}
	if res.ExitCode != 0 {
		return n, errs.CommandFailed(command, res)
	}

	c.position += int64(n)
	if c.position > c.size {
		c.size = c.position
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes b at the current position without truncating the rest of
// the file. In append mode the position first moves to the tracked size.
func (c *Channel) Write(b []byte) (int, error) {
	if err := c.check("write", c.writable, core.ErrNotWritable); err != nil {
		return 0, err
	}
	if c.append {
		c.position = c.size
	}

	command := c.fs.line("dd", "conv=notrunc", "bs=1",
		"seek="+strconv.FormatInt(c.position, 10),
		"of="+c.path.Quoted(),
	)
	st, err := c.fs.open(c.ctx, "dd", command)
	if err != nil {
		return 0, err
	}

	n, copyErr := io.Copy(st.Stdin(), bytes.NewReader(b))
	if copyErr != nil {
		_ = st.Close()
		return int(n), errs.Transport(command, copyErr)
	}
	res, err := st.Wait()
	if err != nil {
		return 0, errs.Transport(command, err)
	}
	if res.ExitCode != 0 {
		return 0, errs.CommandFailed(command, res)
	}

	c.position += n
	if c.position > c.size {
		c.size = c.position
	}
	return int(n), nil
}

// Seek sets the position. io.SeekEnd is relative to the tracked size.
func (c *Channel) Seek(offset int64, whence int) (int64, error) {
	if c.closed {
		return 0, errs.Closed("seek", c.path.String())
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = c.position + offset
	case io.SeekEnd:
		pos = c.size + offset
	default:
		return 0, errors.Newf(errors.CodeInvalidInput, "invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, errors.New(errors.CodeInvalidInput, "negative position")
	}
	c.position = pos
	return pos, nil
}

// Truncate shrinks the file to size. A size at or above the tracked size
// is a no-op. The position is clamped to the new size.
func (c *Channel) Truncate(size int64) error {
	if err := c.check("truncate", c.writable, core.ErrNotWritable); err != nil {
		return err
	}
	if size < 0 {
		return errors.New(errors.CodeInvalidInput, "size must not be negative")
	}
	if size >= c.size {
		return nil
	}
	if err := c.truncateRemote(size); err != nil {
		return err
	}
	if c.position > size {
		c.position = size
	}
	c.size = size
	return nil
}

func (c *Channel) truncateRemote(size int64) error {
	command := c.fs.line("truncate", "-s", strconv.FormatInt(size, 10), c.path.Quoted())
	_, err := c.fs.executeForStdout(c.ctx, "truncate", command)
	return err
}

// Close marks the channel closed. It does not reconcile the tracked size.
func (c *Channel) Close() error {
	c.closed = true
	return nil
}

func (c *Channel) check(op string, allowed bool, sentinel error) error {
	if c.closed {
		return errs.Closed(op, c.path.String())
	}
	if err := c.ctx.Err(); err != nil {
		return errs.Transport(op+" "+c.path.String(), err)
	}
	if !allowed {
		return errors.Wrap(sentinel, errors.CodeInvalidInput, op+" "+c.path.String())
	}
	return nil
}

var _ core.Channel = (*Channel)(nil)
