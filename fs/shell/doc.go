// Package shell implements a POSIX filesystem on top of a remote shell.
//
// Every operation is synthesized as one or more command lines run through
// an exec.Session, and every result is parsed from the commands' text
// output. Nothing is installed on the remote host: the filesystem relies
// only on test, stat, find, ls, cat, dd, touch, mkdir, rmdir, unlink, cp,
// mv, chmod, chown, chgrp, truncate, and optionally inotifywait.
//
// # Mounting
//
// Filesystems are mounted through a Manager, which owns the registry of
// live mounts keyed by base URI:
//
//	manager := shell.NewManager(logger)
//	defer manager.Close()
//
//	fsys, err := manager.Mount(ctx, "ssh.unix://deploy@build01:22/srv/app", shell.Config{
//	    SessionFactory: shell.SSHSessionFactory(hostKeys, agentAuth),
//	})
//
// The URI path becomes the default directory that relative paths resolve
// against.
//
// # Paths
//
// Path is an immutable value. Relative paths stay relative until an
// operation needs them, at which point they are resolved against the
// default directory:
//
//	p := fsys.Path("logs", "app.log")
//	p.String()              // "logs/app.log"
//	p.ToAbsolute().String() // "/srv/app/logs/app.log"
//
// # Attributes
//
// Attributes come from stat. GNU and BSD stat take different format flags;
// the dialect is detected once per filesystem with uname unless
// Config.Dialect is set.
//
// # Random Access
//
// OpenChannel returns a Channel whose reads and writes each run dd at the
// current position. The channel tracks the file size itself and does not
// observe writes made by others.
//
// # Watching
//
// A WatchService either polls registered directories with a single batched
// find/stat command per tick or streams events from inotifywait on a
// duplicated session. Both strategies deliver the same event shape:
//
//	ws, _ := fsys.NewWatchService(shell.WithInterval(time.Minute))
//	defer ws.Close()
//	key, _ := ws.Register(ctx, fsys.Path("incoming"))
//	for {
//	    k, err := ws.Take(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, ev := range k.PollEvents() {
//	        fmt.Println(ev.Kind, ev.Context, ev.Count)
//	    }
//	    if !k.Reset() {
//	        break
//	    }
//	}
//
// # Errors
//
// Errors are errors.PlatformError values wrapping io/fs and core sentinels:
//
//	if errors.Is(err, fs.ErrNotExist) { ... }
//	if errors.GetCode(err) == errors.CodeDirectoryNotEmpty { ... }
//
// A command that fails without a more specific meaning is reported with
// code EXECUTION_FAILED and wraps an *exec.ExecError carrying the command
// text, exit code, and output.
package shell
