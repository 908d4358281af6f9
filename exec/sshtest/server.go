// Package sshtest runs an in-process SSH server for tests. Exec requests are
// run with the local /bin/sh and the sftp subsystem is served by pkg/sftp,
// so code written against a remote host can be exercised against the local
// machine.
package sshtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	osexec "os/exec"
	"sync"
	"testing"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Server is an SSH server listening on a loopback port.
type Server struct {
	// Addr is the host:port the server listens on.
	Addr string

	listener net.Listener
	config   *ssh.ServerConfig
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[*ssh.ServerConn]struct{}
	execs []string
}

// NewServer starts a server that accepts any client without authentication.
// It is shut down when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		t.Fatalf("host key signer: %v", err)
	}

	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(signer)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{
		Addr:     l.Addr().String(),
		listener: l,
		config:   config,
		conns:    make(map[*ssh.ServerConn]struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// ClientConfig returns a client configuration accepted by the server.
func (s *Server) ClientConfig() *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            "test",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
}

// Commands returns every command line executed so far, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.execs...)
}

// Connections returns the number of open client connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close stops the listener and drops every connection.
func (s *Server) Close() {
	_ = s.listener.Close()
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()

	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		_ = conn.Close()
		return
	}
	s.mu.Lock()
	s.conns[sconn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, sconn)
		s.mu.Unlock()
	}()

	go ssh.DiscardRequests(reqs)

	var sessions sync.WaitGroup
	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			continue
		}
		sessions.Add(1)
		go func() {
			defer sessions.Done()
			s.handleSession(ch, requests)
		}()
	}
	sessions.Wait()
}

func (s *Server) handleSession(ch ssh.Channel, requests <-chan *ssh.Request) {
	defer ch.Close()

	var (
		mu   sync.Mutex
		proc *osexec.Cmd
		done = make(chan struct{})
	)

	for req := range requests {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			s.mu.Lock()
			s.execs = append(s.execs, payload.Command)
			s.mu.Unlock()

			cmd := osexec.Command("/bin/sh", "-c", payload.Command)
			cmd.Stdout = ch
			cmd.Stderr = ch.Stderr()
			stdin, err := cmd.StdinPipe()
			if err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			if err := cmd.Start(); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)

			mu.Lock()
			proc = cmd
			mu.Unlock()

			go func() {
				_, _ = io.Copy(stdin, ch)
				_ = stdin.Close()
			}()
			go func() {
				defer close(done)
				status := 0
				var exitErr *osexec.ExitError
				if err := cmd.Wait(); errors.As(err, &exitErr) {
					status = exitErr.ExitCode()
					if status < 0 {
						status = 255
					}
				}
				_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{uint32(status)}))
				_ = ch.Close()
			}()
		case "subsystem":
			var payload struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || payload.Name != "sftp" {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go func() {
				defer close(done)
				server, err := sftp.NewServer(ch)
				if err != nil {
					return
				}
				_ = server.Serve()
				_ = ch.Close()
			}()
		case "signal":
			mu.Lock()
			if proc != nil && proc.Process != nil {
				_ = proc.Process.Kill()
			}
			mu.Unlock()
		default:
			if req.WantReply {
				_ = req.Reply(req.Type == "env" || req.Type == "pty-req", nil)
			}
		}
	}

	// The client went away; make sure nothing is left running.
	mu.Lock()
	if proc != nil && proc.Process != nil {
		_ = proc.Process.Kill()
	}
	started := proc != nil
	mu.Unlock()
	if started {
		<-done
	}
}
