// Package exec runs shell command lines against a target host.
//
// The Session interface is the transport boundary used by the filesystem
// packages: buffered execution, streaming execution and duplication into an
// independent session. Two implementations are provided. SSHSession runs
// commands over golang.org/x/crypto/ssh, one channel per command.
// LocalSession runs them through a local shell, which is useful for
// development and tests.
//
// # SSH
//
//	auth, err := exec.AgentAuth()
//	if err != nil {
//		return err
//	}
//	hostKey, err := exec.HostKeyCallback(filepath.Join(home, ".ssh", "known_hosts"))
//	if err != nil {
//		return err
//	}
//	sess, err := exec.DialSSH(ctx, "host:22", exec.ClientConfig("alice", hostKey, auth),
//		exec.WithProxyURL("socks5://bastion:1080"))
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	res, err := sess.Execute(ctx, "uname -s")
//
// # Exit status
//
// A nonzero exit status is not an error at this layer; inspect
// Result.ExitCode. Callers that cannot map a failure to something specific
// return an *ExecError carrying the command line and its output.
//
// # Streaming
//
//	st, err := sess.Open(ctx, "cat \"/etc/hosts\"")
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//	data, err := io.ReadAll(st.Stdout())
//	res, err := st.Wait()
//
// # Command table
//
// Commands maps logical command names to binaries so a host with tools in an
// unusual location can still be driven:
//
//	cmds := exec.NewCommands("/opt/gnu/bin", map[string]string{"stat": "gstat"})
//	cmds.Line("stat", "--printf", "%s", "\"/etc/hosts\"") // gstat --printf %s "/etc/hosts"
//	cmds.Get("mkdir")                                     // /opt/gnu/bin/mkdir
//
// # Testing
//
// The mocks package holds moq generated SessionMock and StreamMock types.
package exec
