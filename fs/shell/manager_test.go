package shell

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/exec/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMountURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantKey string
		wantErr bool
	}{
		{name: "full", uri: "ssh.unix://user@host:2222/srv/app", wantKey: "ssh.unix://user@host:2222/"},
		{name: "no user", uri: "ssh.unix://host/srv", wantKey: "ssh.unix://host/"},
		{name: "no path", uri: "ssh.unix://host", wantKey: "ssh.unix://host/"},
		{name: "wrong scheme", uri: "sftp://host/", wantErr: true},
		{name: "no host", uri: "ssh.unix:///srv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, key, err := parseMountURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestManager_Mount(t *testing.T) {
	var targets []Target
	sess := &mocks.SessionMock{CloseFunc: func() error { return nil }}
	cfg := Config{
		SessionFactory: func(_ context.Context, target Target) (exec.Session, error) {
			targets = append(targets, target)
			return sess, nil
		},
		Proxy: "socks5://bastion:1080",
	}

	m := NewManager(nil)
	fsys, err := m.Mount(t.Context(), "ssh.unix://deploy@build01:2222/srv/app", cfg)
	require.NoError(t, err)

	require.Len(t, targets, 1)
	assert.Equal(t, Target{User: "deploy", Host: "build01", Port: 2222, Proxy: "socks5://bastion:1080"}, targets[0])
	assert.Equal(t, "build01:2222", targets[0].Addr())
	assert.Equal(t, "/srv/app", fsys.DefaultDirectory().String())

	got, ok := m.Get("ssh.unix://deploy@build01:2222/other/dir")
	require.True(t, ok)
	assert.Same(t, fsys, got)

	_, err = m.Mount(t.Context(), "ssh.unix://deploy@build01:2222/elsewhere", cfg)
	assert.ErrorIs(t, err, fs.ErrExist)

	require.NoError(t, fsys.Close())
	assert.False(t, fsys.IsOpen())
	assert.Len(t, sess.CloseCalls(), 1)
	_, ok = m.Get("ssh.unix://deploy@build01:2222/")
	assert.False(t, ok)

	// The base can be mounted again once closed.
	again, err := m.Mount(t.Context(), "ssh.unix://deploy@build01:2222/srv", cfg)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.False(t, again.IsOpen())
}

func TestManager_MountDefaults(t *testing.T) {
	var target Target
	m := NewManager(nil)
	fsys, err := m.Mount(t.Context(), "ssh.unix://host", Config{
		SessionFactory: func(_ context.Context, tg Target) (exec.Session, error) {
			target = tg
			return &mocks.SessionMock{CloseFunc: func() error { return nil }}, nil
		},
	})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, DefaultPort, target.Port)
	assert.Equal(t, "/", fsys.DefaultDirectory().String())
}

func TestManager_MountFailures(t *testing.T) {
	m := NewManager(nil)

	_, err := m.Mount(t.Context(), testMountURI, Config{})
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	_, err = m.Mount(t.Context(), testMountURI, Config{
		SessionFactory: func(context.Context, Target) (exec.Session, error) {
			return nil, fmt.Errorf("connection refused")
		},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeTransport, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))

	_, ok := m.Get(testMountURI)
	assert.False(t, ok, "a failed mount releases its key")
}

func TestFileSystem_ClosedRejectsOperations(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})
	require.NoError(t, fsys.Close())
	require.NoError(t, fsys.Close())

	err := fsys.CheckAccess(t.Context(), fsys.Path("a"))
	assert.ErrorIs(t, err, fs.ErrClosed)

	_, err = fsys.NewWatchService()
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestFileSystem_CloseClosesWatchServices(t *testing.T) {
	fsys := mount(t, newRemote(), Config{})
	ws, err := fsys.NewWatchService()
	require.NoError(t, err)

	require.NoError(t, fsys.Close())
	_, _, err = ws.Poll()
	assert.Error(t, err)
}
