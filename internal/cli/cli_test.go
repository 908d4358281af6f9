package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/exec/mocks"
	"github.com/jmgilman/go/fs/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMount = "ssh.unix://user@host:22/home/user"

// host answers commands by prefix. Unmatched commands exit 127.
type host struct {
	mu       sync.Mutex
	replies  map[string]*exec.Result
	stdout   map[string]string
	stdin    map[string]*bytes.Buffer
	commands []string
}

func newHost() *host {
	return &host{
		replies: make(map[string]*exec.Result),
		stdout:  make(map[string]string),
		stdin:   make(map[string]*bytes.Buffer),
	}
}

func (h *host) on(prefix string, exitCode int, stdout string) {
	h.replies[prefix] = &exec.Result{ExitCode: exitCode, Stdout: stdout}
}

func (h *host) execute(_ context.Context, cmd string) (*exec.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, cmd)

	best := ""
	for prefix := range h.replies {
		if strings.HasPrefix(cmd, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return &exec.Result{ExitCode: 127, Stderr: "command not found"}, nil
	}
	res := *h.replies[best]
	return &res, nil
}

func (h *host) open(_ context.Context, cmd string) (exec.Stream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, cmd)

	in := &bytes.Buffer{}
	h.stdin[cmd] = in
	out := strings.NewReader(h.stdout[cmd])
	return &mocks.StreamMock{
		StdinFunc:  func() io.WriteCloser { return nopWriteCloser{in} },
		StdoutFunc: func() io.Reader { return out },
		WaitFunc:   func() (*exec.Result, error) { return &exec.Result{}, nil },
		CloseFunc:  func() error { return nil },
	}, nil
}

func (h *host) ran() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.commands...)
}

func (h *host) factory(*globalOptions) (shell.SessionFactory, error) {
	return func(context.Context, shell.Target) (exec.Session, error) {
		return &mocks.SessionMock{
			ExecuteFunc: h.execute,
			OpenFunc:    h.open,
			CloseFunc:   func() error { return nil },
		}, nil
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func runCLI(t *testing.T, h *host, stdin string, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("SHELLFS_DIALECT", "gnu")
	t.Setenv("SHELLFS_MOUNT", "")

	var stdout, stderr bytes.Buffer
	code := run(t.Context(), args, h.factory, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func posixRecord(typ string, size int64, perm string) string {
	return strings.Join([]string{"0", "5", typ, "1700000000", "1700000000", fmt.Sprint(size), perm, "user", "staff"}, "\x1f")
}

func TestLs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default dir", args: []string{"ls"}, want: "b.txt\na.log\n"},
		{name: "all", args: []string{"ls", "-a"}, want: "b.txt\n.hidden\na.log\n"},
		{name: "glob", args: []string{"ls", "--glob", "*.txt"}, want: "b.txt\n"},
		{name: "relative dir", args: []string{"ls", "sub"}, want: "c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost()
			h.on(`ls -A -1 "/home/user"`, 0, "b.txt\n.hidden\na.log\n")
			h.on(`ls -A -1 "/home/user/sub"`, 0, "c\n")

			out, stderr, code := runCLI(t, h, "", append([]string{"--mount", testMount}, tt.args...)...)
			require.Equal(t, ExitOK, code, stderr)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestStat_JSON(t *testing.T) {
	h := newHost()
	h.on(`stat --printf`, 0, posixRecord("regular file", 12, "-rw-r-----"))

	out, stderr, code := runCLI(t, h, "", "--mount", testMount, "--json", "stat", "notes.txt")
	require.Equal(t, ExitOK, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 12, got["size"])
	assert.Equal(t, "user", got["owner"])
	assert.Equal(t, "-rw-r-----", got["permissions"])
	assert.Equal(t, "regular file", got["type"])
	assert.Equal(t, true, got["isRegularFile"])
	assert.Equal(t, "2023-11-14T22:13:20Z", got["lastModifiedTime"])
}

func TestCat(t *testing.T) {
	h := newHost()
	h.stdout[`cat "/home/user/a"`] = "first\n"
	h.stdout[`cat "/etc/motd"`] = "welcome\n"

	out, stderr, code := runCLI(t, h, "", "--mount", testMount, "cat", "a", "/etc/motd")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "first\nwelcome\n", out)
}

func TestPut(t *testing.T) {
	h := newHost()
	h.on(`chmod`, 0, "")

	_, stderr, code := runCLI(t, h, "hello", "--mount", testMount, "put", "--mode", "640", "greeting")
	require.Equal(t, ExitOK, code, stderr)

	assert.Equal(t, "hello", h.stdin[`cat > "/home/user/greeting"`].String())
	assert.Contains(t, h.ran(), `chmod 640 "/home/user/greeting"`)
}

func TestPut_Append(t *testing.T) {
	h := newHost()
	h.on(`test -e "/home/user/log"`, 0, "")

	_, stderr, code := runCLI(t, h, "line\n", "--mount", testMount, "put", "--append", "log")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "line\n", h.stdin[`cat >> "/home/user/log"`].String())
}

func TestPut_Recursive(t *testing.T) {
	local := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(local, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(local, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(local, "css", "site.css"), []byte("body{}"), 0o600))

	h := newHost()
	h.on(`test -e "/home"`, 0, "")
	h.on(`test -e "/home/user"`, 0, "")
	h.on(`mkdir`, 0, "")
	h.on(`chmod`, 0, "")

	_, stderr, code := runCLI(t, h, "", "--mount", testMount, "put", "-r", "www", local)
	require.Equal(t, ExitOK, code, stderr)

	assert.Equal(t, "<h1>hi</h1>", h.stdin[`cat > "/home/user/www/index.html"`].String())
	assert.Equal(t, "body{}", h.stdin[`cat > "/home/user/www/css/site.css"`].String())

	cmds := h.ran()
	assert.Contains(t, cmds, `mkdir -m 755 "/home/user/www"`)
	assert.Contains(t, cmds, `mkdir -m 755 "/home/user/www/css"`)
	assert.Contains(t, cmds, `chmod 644 "/home/user/www/index.html"`)
	assert.Contains(t, cmds, `chmod 600 "/home/user/www/css/site.css"`)
}

func TestMkdir(t *testing.T) {
	h := newHost()
	h.on(`test -e "/home"`, 0, "")
	h.on(`test -e "/home/user"`, 0, "")
	h.on(`mkdir`, 0, "")

	_, stderr, code := runCLI(t, h, "", "--mount", testMount, "mkdir", "-p", "--mode", "700", "a/b")
	require.Equal(t, ExitOK, code, stderr)

	cmds := h.ran()
	assert.Contains(t, cmds, `mkdir -m 700 "/home/user/a"`)
	assert.Contains(t, cmds, `mkdir -m 700 "/home/user/a/b"`)
	assert.NotContains(t, cmds, `mkdir -m 700 "/home/user"`)
}

func TestRm_Force(t *testing.T) {
	h := newHost()
	h.on(`stat --printf`, 1, "")

	_, stderr, code := runCLI(t, h, "", "--mount", testMount, "rm", "-f", "gone")
	assert.Equal(t, ExitOK, code, stderr)

	_, _, code = runCLI(t, h, "", "--mount", testMount, "rm", "gone")
	assert.Equal(t, ExitNotFound, code)
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no mount", args: []string{"ls"}, want: ExitConfig},
		{name: "bad flag", args: []string{"ls", "--bogus"}, want: ExitUsage},
		{name: "missing args", args: []string{"--mount", testMount, "cp", "a"}, want: ExitUsage},
		{name: "bad mode", args: []string{"--mount", testMount, "mkdir", "--mode", "9", "d"}, want: ExitUsage},
		{name: "recursive without dir", args: []string{"--mount", testMount, "put", "-r", "www"}, want: ExitUsage},
		{name: "recursive with append", args: []string{"--mount", testMount, "put", "-r", "--append", "www", "."}, want: ExitUsage},
		{name: "bad event kind", args: []string{"--mount", testMount, "watch", "--events", "rename", "d"}, want: ExitUsage},
		{name: "bad uri", args: []string{"--mount", "http://host/", "ls"}, want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := runCLI(t, newHost(), "", tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestPrintError_JSON(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New(errors.CodeNotFound, "no such file"), true)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "no such file", resp.Message)
}
