package exec

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSession_Execute(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		stdout   string
		stderr   string
		exitCode int
	}{
		{
			name:    "stdout",
			command: "echo hello",
			stdout:  "hello\n",
		},
		{
			name:    "stderr",
			command: "echo oops >&2",
			stderr:  "oops\n",
		},
		{
			name:     "nonzero exit is not an error",
			command:  "exit 3",
			exitCode: 3,
		},
		{
			name:     "test builtin",
			command:  "test -e /definitely/not/here",
			exitCode: 1,
		},
	}

	s := NewLocal()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Execute(context.Background(), tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.stdout, res.Stdout)
			assert.Equal(t, tt.stderr, res.Stderr)
			assert.Equal(t, tt.exitCode, res.ExitCode)
			assert.Equal(t, tt.exitCode == 0, res.Success())
		})
	}
}

func TestLocalSession_Options(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(WithDir(dir), WithEnv(map[string]string{"SHELLFS_TEST": "value"}))

	res, err := s.Execute(context.Background(), "pwd; echo $SHELLFS_TEST")
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
	assert.Contains(t, res.Stdout, "value")
}

func TestLocalSession_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLocal().Execute(ctx, "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalSession_Open(t *testing.T) {
	s := NewLocal()

	t.Run("read stdout", func(t *testing.T) {
		st, err := s.Open(context.Background(), "printf abc")
		require.NoError(t, err)
		defer st.Close()

		data, err := io.ReadAll(st.Stdout())
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))

		res, err := st.Wait()
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("write stdin", func(t *testing.T) {
		st, err := s.Open(context.Background(), "cat")
		require.NoError(t, err)
		defer st.Close()

		_, err = io.WriteString(st.Stdin(), "round trip")
		require.NoError(t, err)
		require.NoError(t, st.Stdin().Close())

		data, err := io.ReadAll(st.Stdout())
		require.NoError(t, err)
		assert.Equal(t, "round trip", string(data))
	})

	t.Run("close aborts", func(t *testing.T) {
		st, err := s.Open(context.Background(), "sleep 5")
		require.NoError(t, err)

		start := time.Now()
		require.NoError(t, st.Close())
		assert.Less(t, time.Since(start), 4*time.Second)
	})
}

func TestLocalSession_Closed(t *testing.T) {
	s := NewLocal()
	dup, err := s.Duplicate(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Execute(context.Background(), "true")
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Open(context.Background(), "true")
	assert.ErrorIs(t, err, ErrSessionClosed)

	res, err := dup.Execute(context.Background(), "true")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
}
