package shell

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"github.com/pkg/sftp"
)

// newSFTPClient opens an SFTP subsystem on the session's SSH connection.
// Hybrid mode needs a real SSH session.
func newSFTPClient(session exec.Session) (*sftp.Client, error) {
	sess, ok := session.(*exec.SSHSession)
	if !ok {
		return nil, errs.Unsupported("hybrid", "")
	}
	client, err := sftp.NewClient(sess.Client())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "failed to start sftp subsystem")
	}
	return client, nil
}

// createDirectorySFTP creates p over SFTP instead of running mkdir.
func (f *FileSystem) createDirectorySFTP(p Path, o createOptions) error {
	abs := p.ToAbsolute().String()

	if _, err := f.sftp.Lstat(abs); err == nil {
		return errs.AlreadyExists("mkdir", p.String())
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return sftpError("mkdir", p, err)
	}

	if err := f.sftp.Mkdir(abs); err != nil {
		return sftpError("mkdir", p, err)
	}
	if o.perm != nil {
		if err := f.sftp.Chmod(abs, *o.perm); err != nil {
			return sftpError("chmod", p, err)
		}
	}
	return nil
}

// sftpError maps SFTP status errors onto the shell filesystem's errors.
func sftpError(op string, p Path, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errs.NotFound(op, p.String())
	case stderrors.Is(err, fs.ErrPermission):
		return errs.AccessDenied(op, p.String())
	case stderrors.Is(err, fs.ErrExist):
		return errs.AlreadyExists(op, p.String())
	}
	var status *sftp.StatusError
	if stderrors.As(err, &status) && status.FxCode() == sftp.ErrSSHFxFailure {
		return errors.Wrap(err, errors.CodeExecutionFailed, op+" "+p.String())
	}
	if stderrors.Is(err, os.ErrClosed) {
		return errs.Closed(op, p.String())
	}
	return errors.Wrap(err, errors.CodeTransport, op+" "+p.String())
}
