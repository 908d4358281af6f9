package exec

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

// ErrNoAgent is returned by AgentAuth when SSH_AUTH_SOCK is unset or unreachable.
var ErrNoAgent = errors.New("ssh agent not available")

// AgentAuth authenticates with the keys held by the running SSH agent.
func AgentAuth() (ssh.AuthMethod, error) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, ErrNoAgent
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAgent, err)
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers), nil
}

// PrivateKeyAuth authenticates with a PEM encoded private key. An empty
// passphrase means the key is not encrypted.
func PrivateKeyAuth(pemBytes, passphrase []byte) (ssh.AuthMethod, error) {
	var (
		signer ssh.Signer
		err    error
	)
	if len(passphrase) > 0 {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, passphrase)
	} else {
		signer, err = ssh.ParsePrivateKey(pemBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return ssh.PublicKeys(signer), nil
}

// PasswordAuth authenticates with a fixed password.
func PasswordAuth(password string) ssh.AuthMethod {
	return ssh.Password(password)
}

// PasswordPrompt asks for a password on the terminal attached to in, writing
// the prompt to out. It is only consulted if earlier methods fail.
func PasswordPrompt(prompt string, in *os.File, out io.Writer) ssh.AuthMethod {
	return ssh.PasswordCallback(func() (string, error) {
		fmt.Fprint(out, prompt)
		pw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		return string(pw), err
	})
}

// HostKeyCallback verifies hosts against the given known_hosts files. With no
// files every host key is accepted.
func HostKeyCallback(knownHostsFiles ...string) (ssh.HostKeyCallback, error) {
	if len(knownHostsFiles) == 0 {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(knownHostsFiles...)
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

// ClientConfig assembles an ssh.ClientConfig.
func ClientConfig(user string, hostKey ssh.HostKeyCallback, methods ...ssh.AuthMethod) *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            user,
		Auth:            methods,
		HostKeyCallback: hostKey,
	}
}
