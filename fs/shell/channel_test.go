package shell

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// channelRemote serves a five byte file at /home/user/f.
func channelRemote() *remote {
	r := newRemote()
	r.onStat(`"/home/user/f"`, "regular file", 1, 5)
	return r
}

func TestOpenChannel_Options(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		opts    []core.OpenOption
		wantIs  error
		wantCmd string
	}{
		{name: "missing without create", opts: []core.OpenOption{core.OpenRead}, wantIs: fs.ErrNotExist},
		{name: "create new on existing", exists: true, opts: []core.OpenOption{core.OpenWrite, core.OpenCreateNew}, wantIs: fs.ErrExist},
		{name: "create on missing", opts: []core.OpenOption{core.OpenWrite, core.OpenCreate}, wantCmd: `touch "/home/user/f"`},
		{name: "delete on close", exists: true, opts: []core.OpenOption{core.OpenDeleteOnClose}, wantIs: core.ErrUnsupported},
		{name: "truncate existing", exists: true, opts: []core.OpenOption{core.OpenWrite, core.OpenTruncateExisting}, wantCmd: `truncate -s 0 "/home/user/f"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRemote()
			created := false
			if tt.exists {
				r.onStat(`"/home/user/f"`, "regular file", 1, 5)
			} else {
				r.onMissing(`"/home/user/f"`)
				r.handle(hasPrefix(`touch "/home/user/f"`), func(string) *exec.Result {
					created = true
					return &exec.Result{}
				})
				r.handle(hasAll(statPosix, `"/home/user/f"`), func(string) *exec.Result {
					if !created {
						return &exec.Result{ExitCode: 1}
					}
					return &exec.Result{Stdout: posixRecord("regular empty file", 1, 0, 1, "-rw-r--r--")}
				})
			}
			r.on(`truncate -s 0 "/home/user/f"`, 0, "")
			fsys := mount(t, r, Config{})

			ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), tt.opts...)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, r.ran(), tt.wantCmd)
			assert.Zero(t, ch.Size())
		})
	}
}

func TestChannel_Read(t *testing.T) {
	r := channelRemote()
	r.streams = func(cmd string) (exec.Stream, error) {
		switch cmd {
		case `dd bs=1 skip=0 count=3 if="/home/user/f" 2> /dev/null`:
			st, _ := newStream("abc", 0)
			return st, nil
		case `dd bs=1 skip=3 count=10 if="/home/user/f" 2> /dev/null`:
			st, _ := newStream("de", 0)
			return st, nil
		}
		t.Fatalf("unexpected stream %q", cmd)
		return nil, nil
	}
	fsys := mount(t, r, Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), ch.Size())

	buf := make([]byte, 3)
	n, err := ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
	assert.Equal(t, int64(3), ch.Position())

	buf = make([]byte, 10)
	n, err = ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "de", string(buf[:n]))
	assert.Equal(t, int64(5), ch.Position())

	n, err = ch.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestChannel_ReadFailure(t *testing.T) {
	r := channelRemote()
	r.streams = func(string) (exec.Stream, error) {
		st, _ := newStream("", 1)
		return st, nil
	}
	fsys := mount(t, r, Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"))
	require.NoError(t, err)

	_, err = ch.Read(make([]byte, 2))
	require.Error(t, err)
	assert.Zero(t, ch.Position())
}

func TestChannel_ContextDone(t *testing.T) {
	r := channelRemote()
	r.streams = func(cmd string) (exec.Stream, error) {
		t.Fatalf("unexpected stream %q", cmd)
		return nil, nil
	}
	fsys := mount(t, r, Config{})

	ctx, cancel := context.WithCancel(t.Context())
	ch, err := fsys.OpenChannel(ctx, fsys.Path("f"), core.OpenRead, core.OpenWrite)
	require.NoError(t, err)
	cancel()

	_, err = ch.Read(make([]byte, 2))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = ch.Write([]byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, ch.Truncate(1), context.Canceled)

	pos, err := ch.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)
	assert.NoError(t, ch.Close())
	assert.False(t, r.ranPrefix("truncate"))
}

func TestChannel_Write(t *testing.T) {
	r := channelRemote()
	var stdin *stdinBuffer
	var commands []string
	r.streams = func(cmd string) (exec.Stream, error) {
		commands = append(commands, cmd)
		var st exec.Stream
		st, stdin = newStream("", 0)
		return st, nil
	}
	fsys := mount(t, r, Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), core.OpenWrite)
	require.NoError(t, err)

	_, err = ch.Seek(4, io.SeekStart)
	require.NoError(t, err)

	n, err := ch.Write([]byte("xyz"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "xyz", stdin.String())
	assert.Equal(t, `dd conv=notrunc bs=1 seek=4 of="/home/user/f"`, commands[0])
	assert.Equal(t, int64(7), ch.Position())
	assert.Equal(t, int64(7), ch.Size())
}

func TestChannel_Append(t *testing.T) {
	r := channelRemote()
	var commands []string
	r.streams = func(cmd string) (exec.Stream, error) {
		commands = append(commands, cmd)
		st, _ := newStream("", 0)
		return st, nil
	}
	fsys := mount(t, r, Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), core.OpenAppend)
	require.NoError(t, err)

	_, err = ch.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, `dd conv=notrunc bs=1 seek=5 of="/home/user/f"`, commands[0])
	assert.Equal(t, int64(6), ch.Size())
}

func TestChannel_Truncate(t *testing.T) {
	r := channelRemote()
	r.on(`truncate -s 2 "/home/user/f"`, 0, "")
	fsys := mount(t, r, Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), core.OpenWrite)
	require.NoError(t, err)

	require.NoError(t, ch.Truncate(10))
	assert.False(t, r.ranPrefix("truncate"), "growing is a no-op")

	_, err = ch.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	require.NoError(t, ch.Truncate(2))
	assert.True(t, r.ranPrefix(`truncate -s 2 "/home/user/f"`))
	assert.Equal(t, int64(2), ch.Size())
	assert.Equal(t, int64(2), ch.Position())

	assert.Error(t, ch.Truncate(-1))
}

func TestChannel_ModeChecks(t *testing.T) {
	fsys := mount(t, channelRemote(), Config{})

	ro, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), core.OpenRead)
	require.NoError(t, err)
	_, err = ro.Write([]byte("x"))
	assert.ErrorIs(t, err, core.ErrNotWritable)
	assert.ErrorIs(t, ro.Truncate(0), core.ErrNotWritable)

	wo, err := fsys.OpenChannel(t.Context(), fsys.Path("f"), core.OpenWrite)
	require.NoError(t, err)
	_, err = wo.Read(make([]byte, 1))
	assert.ErrorIs(t, err, core.ErrNotReadable)

	require.NoError(t, wo.Close())
	assert.False(t, wo.IsOpen())
	_, err = wo.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestChannel_Seek(t *testing.T) {
	fsys := mount(t, channelRemote(), Config{})

	ch, err := fsys.OpenChannel(t.Context(), fsys.Path("f"))
	require.NoError(t, err)

	pos, err := ch.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	pos, err = ch.Seek(1, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	pos, err = ch.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = ch.Seek(-10, io.SeekCurrent)
	assert.Error(t, err)
}
