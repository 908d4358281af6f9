package shell_test

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/exec/sshtest"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/fstest"
	"github.com/jmgilman/go/fs/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mountLocal mounts dir of the local machine through an in-process SSH
// server, so every command runs against the real coreutils.
func mountLocal(t *testing.T, dir string, cfg shell.Config) *shell.FileSystem {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := sshtest.NewServer(t)
	cfg.SessionFactory = func(ctx context.Context, _ shell.Target) (exec.Session, error) {
		return exec.DialSSH(ctx, srv.Addr, srv.ClientConfig())
	}
	cfg.Logger = zaptest.NewLogger(t)

	m := shell.NewManager(nil)
	fsys, err := m.Mount(context.Background(), "ssh.unix://test@"+srv.Addr+dir, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return fsys
}

func TestIntegration_Suite(t *testing.T) {
	fstest.TestSuite(t, func(t *testing.T) fstest.Fixture[shell.Path] {
		dir := t.TempDir()
		fsys := mountLocal(t, dir, shell.Config{})
		base := fsys.DefaultDirectory()
		return fstest.Fixture[shell.Path]{FS: fsys, Base: base, Tree: fsys.Tree(base)}
	})
}

func TestIntegration_Channel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.txt"), []byte("hello world"), 0o644))
	fsys := mountLocal(t, dir, shell.Config{})
	ctx := context.Background()

	ch, err := fsys.OpenChannel(ctx, fsys.Path("data.txt"), core.OpenRead, core.OpenWrite)
	require.NoError(t, err)
	defer ch.Close()
	assert.Equal(t, int64(11), ch.Size())

	_, err = ch.Seek(6, io.SeekStart)
	require.NoError(t, err)
	buf := make([]byte, 5)
	n, err := ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	_, err = ch.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = ch.Write([]byte("HELLO"))
	require.NoError(t, err)
	require.NoError(t, ch.Truncate(5))

	data, err := os.ReadFile(filepath.Join(dir, "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(data))
}

func TestIntegration_Attributes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc"), 0o640))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	fsys := mountLocal(t, dir, shell.Config{})
	ctx := context.Background()

	attrs, err := fsys.ReadPosixAttributes(ctx, fsys.Path("a.txt"))
	require.NoError(t, err)
	assert.True(t, attrs.IsRegularFile())
	assert.Equal(t, int64(3), attrs.Size)
	assert.Equal(t, os.FileMode(0o640), attrs.Permissions)
	assert.NotEmpty(t, attrs.Owner)

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fsys.SetTimes(ctx, fsys.Path("a.txt"), mtime, time.Time{}))
	info, err := os.Stat(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	entries, err := fsys.StatDirectory(ctx, fsys.DefaultDirectory())
	require.NoError(t, err)
	require.Contains(t, entries, "a.txt")
	assert.NotContains(t, entries, "sub")
}

func TestIntegration_PollingWatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("x"), 0o644))
	fsys := mountLocal(t, dir, shell.Config{})

	svc, err := fsys.NewWatchService(shell.WithInterval(time.Hour))
	require.NoError(t, err)
	defer svc.Close()

	key, err := svc.Register(context.Background(), fsys.DefaultDirectory())
	require.NoError(t, err)
	require.True(t, key.WaitForInitialization(10*time.Second))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("y"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "old.txt")))
	key.PollNow()

	got, ok, err := svc.PollTimeout(10 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, key, got)

	events := key.PollEvents()
	require.Len(t, events, 2)
	assert.Equal(t, core.EventCreate, events[0].Kind)
	assert.Equal(t, "new.txt", events[0].Context.String())
	assert.Equal(t, core.EventDelete, events[1].Kind)
	assert.Equal(t, "old.txt", events[1].Context.String())
	assert.True(t, key.Reset())
}

func TestIntegration_InotifyWatch(t *testing.T) {
	if _, err := osexec.LookPath("inotifywait"); err != nil {
		t.Skip("inotifywait not installed")
	}
	dir := t.TempDir()
	fsys := mountLocal(t, dir, shell.Config{Watch: shell.WatchConfig{Strategy: shell.WatchInotify}})

	svc, err := fsys.NewWatchService()
	require.NoError(t, err)
	defer svc.Close()

	key, err := svc.Register(context.Background(), fsys.DefaultDirectory(), core.EventCreate)
	require.NoError(t, err)
	require.True(t, key.WaitForInitialization(10*time.Second))

	// inotifywait prints "Watches established" before it is ready, which
	// the key does not wait for.
	deadline := time.Now().Add(10 * time.Second)
	for i := 0; time.Now().Before(deadline); i++ {
		name := filepath.Join(dir, "f"+time.Now().Format("150405.000000"))
		require.NoError(t, os.WriteFile(name, nil, 0o644))

		got, ok, err := svc.PollTimeout(500 * time.Millisecond)
		require.NoError(t, err)
		if !ok {
			continue
		}
		assert.Same(t, key, got)
		events := key.PollEvents()
		require.NotEmpty(t, events)
		assert.Equal(t, core.EventCreate, events[0].Kind)
		return
	}
	t.Fatal("no inotify event received")
}

func TestIntegration_HybridCreateDirectory(t *testing.T) {
	dir := t.TempDir()
	fsys := mountLocal(t, dir, shell.Config{Hybrid: true})
	ctx := context.Background()

	require.NoError(t, fsys.CreateDirectory(ctx, fsys.Path("made"), shell.WithPermissions(0o700)))
	info, err := os.Stat(filepath.Join(dir, "made"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	err = fsys.CreateDirectory(ctx, fsys.Path("made"))
	assert.ErrorIs(t, err, os.ErrExist)
}
