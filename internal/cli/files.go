package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell"
	"github.com/spf13/cobra"
)

func newLsCmd(m *mounter) *cobra.Command {
	var (
		long    bool
		all     bool
		pattern string
	)
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List a directory",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			dir := fsys.DefaultDirectory()
			if len(args) == 1 {
				dir = fsys.Path(args[0])
			}

			var match core.PathMatcher
			if pattern != "" {
				if match, err = fsys.PathMatcher("glob:" + pattern); err != nil {
					return err
				}
			}
			filter := func(p shell.Path) bool {
				name, _ := p.FileName()
				if !all && fsys.IsHidden(p) {
					return false
				}
				return match == nil || match.Match(name)
			}

			entries, err := fsys.ReadDir(cmd.Context(), dir, filter)
			if err != nil {
				return err
			}

			if !long {
				names := make([]string, len(entries))
				for i, p := range entries {
					name, _ := p.FileName()
					names[i] = name.String()
				}
				if m.opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), names)
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			rows := make([]map[string]any, 0, len(entries))
			for _, p := range entries {
				attrs, err := fsys.ReadPosixAttributes(cmd.Context(), p)
				if err != nil {
					return err
				}
				name, _ := p.FileName()
				attrs.Name = name.String()
				rows = append(rows, displayAttributes(attrs.Map()))
				if !m.opts.jsonOutput {
					fmt.Fprintln(cmd.OutOrStdout(), formatLong(attrs))
				}
			}
			if m.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode, owner, group, size, and modification time")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden entries")
	cmd.Flags().StringVarP(&pattern, "glob", "g", "", "only list names matching the glob")
	return cmd
}

func formatLong(a *core.Attributes) string {
	return fmt.Sprintf("%s %-8s %-8s %10d %s %s",
		a.Mode(), a.Owner, a.Group, a.Size,
		a.LastModifiedTime.Local().Format("Jan _2 15:04"), a.Name)
}

func newStatCmd(m *mounter) *cobra.Command {
	var attributes string
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print the attributes of a path",
		Long: `Print the attributes of a path.

--attributes takes an optional view and a comma separated list of names,
e.g. "posix:*" or "basic:size,lastModifiedTime".`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			values, err := fsys.ReadAttributesByName(cmd.Context(), fsys.Path(args[0]), attributes)
			if err != nil {
				return err
			}
			return m.print(cmd.OutOrStdout(), displayAttributes(values))
		},
	}
	cmd.Flags().StringVarP(&attributes, "attributes", "A", "posix:*", "attributes to read")
	return cmd
}

// displayAttributes renders attribute values as strings where their Go
// form is not readable.
func displayAttributes(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch v := v.(type) {
		case time.Time:
			out[k] = v.UTC().Format(time.RFC3339)
		case fmt.Stringer:
			out[k] = v.String()
		default:
			out[k] = v
		}
	}
	return out
}

func newCatCmd(m *mounter) *cobra.Command {
	var offset, length int64
	cmd := &cobra.Command{
		Use:   "cat <path>...",
		Short: "Print file contents",
		Long: `Print file contents.

With --offset or --length a single file is read through a random access
channel instead of being streamed.`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if offset > 0 || length > 0 {
				if len(args) != 1 {
					return &usageError{msg: "--offset and --length take a single file"}
				}
				return readRange(cmd, fsys, fsys.Path(args[0]), offset, length)
			}

			for _, arg := range args {
				rc, err := fsys.NewReader(cmd.Context(), fsys.Path(arg))
				if err != nil {
					return err
				}
				_, err = io.Copy(out, rc)
				_ = rc.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&offset, "offset", 0, "byte offset to start reading at")
	cmd.Flags().Int64Var(&length, "length", 0, "number of bytes to read (default: to the end)")
	return cmd
}

func readRange(cmd *cobra.Command, fsys *shell.FileSystem, p shell.Path, offset, length int64) error {
	ch, err := fsys.OpenChannel(cmd.Context(), p, core.OpenRead)
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	var src io.Reader = ch
	if length > 0 {
		src = io.LimitReader(ch, length)
	}
	_, err = io.Copy(cmd.OutOrStdout(), src)
	return err
}

func newPutCmd(m *mounter) *cobra.Command {
	var (
		appendMode bool
		createNew  bool
		recursive  bool
		offset     int64
		mode       string
	)
	cmd := &cobra.Command{
		Use:   "put <remote> [local]",
		Short: "Write a local file or stdin to a remote file",
		Long: `Write a local file or stdin to a remote file.

With --recursive, local must be a directory. Its regular files are copied
under remote, keeping their relative paths and permission bits.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if recursive {
				if len(args) != 2 {
					return &usageError{msg: "--recursive requires a local directory"}
				}
				for _, name := range []string{"append", "create-new", "offset", "mode"} {
					if cmd.Flags().Changed(name) {
						return &usageError{msg: "--recursive cannot be combined with --" + name}
					}
				}
				return putTree(cmd, m, args[0], args[1])
			}

			var perm fs.FileMode
			if mode != "" {
				v, err := strconv.ParseUint(mode, 8, 32)
				if err != nil {
					return &usageError{msg: fmt.Sprintf("invalid mode %q", mode)}
				}
				perm = fs.FileMode(v)
			}

			src := cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return errors.Wrapf(err, errors.CodeInvalidInput, "failed to open %s", args[1])
				}
				defer f.Close()
				src = f
			}

			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			p := fsys.Path(args[0])
			if cmd.Flags().Changed("offset") {
				err = writeAt(cmd, fsys, p, offset, src)
			} else {
				err = writeStream(cmd, fsys, p, src, appendMode, createNew)
			}
			if err != nil {
				return err
			}

			if mode != "" {
				return fsys.SetPermissions(cmd.Context(), p, perm)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendMode, "append", false, "append instead of replacing")
	cmd.Flags().BoolVar(&createNew, "create-new", false, "fail if the file already exists")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy a local directory tree")
	cmd.Flags().Int64Var(&offset, "offset", 0, "overwrite in place starting at this byte offset")
	cmd.Flags().StringVar(&mode, "mode", "", "octal permissions to set afterwards, e.g. 640")
	return cmd
}

func putTree(cmd *cobra.Command, m *mounter, remote, local string) error {
	info, err := os.Stat(local)
	if err != nil {
		return errors.Wrapf(err, errors.CodeInvalidInput, "failed to open %s", local)
	}
	if !info.IsDir() {
		return errors.Newf(errors.CodeInvalidInput, "%s is not a directory", local)
	}

	fsys, done, err := m.mount(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	tree := fsys.Tree(fsys.Path(remote))
	if err := tree.MkdirAll(cmd.Context(), ".", 0o755); err != nil {
		return err
	}
	return core.CopyTree(cmd.Context(), os.DirFS(local), ".", tree)
}

func writeStream(cmd *cobra.Command, fsys *shell.FileSystem, p shell.Path, src io.Reader, appendMode, createNew bool) error {
	opts := []core.OpenOption{core.OpenWrite, core.OpenCreate, core.OpenTruncateExisting}
	switch {
	case appendMode:
		opts = []core.OpenOption{core.OpenAppend, core.OpenCreate}
	case createNew:
		opts = []core.OpenOption{core.OpenWrite, core.OpenCreateNew}
	}

	w, err := fsys.NewWriter(cmd.Context(), p, opts...)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeAt(cmd *cobra.Command, fsys *shell.FileSystem, p shell.Path, offset int64, src io.Reader) error {
	ch, err := fsys.OpenChannel(cmd.Context(), p, core.OpenWrite, core.OpenCreate)
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(ch, src)
	return err
}

func newMkdirCmd(m *mounter) *cobra.Command {
	var (
		parents bool
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "mkdir <dir>...",
		Short: "Create directories",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(mode, 8, 32)
			if err != nil {
				return &usageError{msg: fmt.Sprintf("invalid mode %q", mode)}
			}
			perm := fs.FileMode(v)

			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			tree := fsys.Tree(fsys.Root())
			for _, arg := range args {
				p := fsys.Path(arg).ToAbsolute()
				if parents {
					err = tree.MkdirAll(cmd.Context(), strings.TrimPrefix(p.String(), "/"), perm)
				} else {
					err = fsys.CreateDirectory(cmd.Context(), p, shell.WithPermissions(perm))
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parents and ignore existing directories")
	cmd.Flags().StringVar(&mode, "mode", "755", "octal permissions")
	return cmd
}

func newRmCmd(m *mounter) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Remove files and empty directories",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			for _, arg := range args {
				p := fsys.Path(arg)
				if force {
					_, err = fsys.DeleteIfExists(cmd.Context(), p)
				} else {
					err = fsys.Delete(cmd.Context(), p)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "ignore missing paths")
	return cmd
}

func newCpCmd(m *mounter) *cobra.Command {
	return newTransferCmd(m, "cp", "Copy a file or directory", (*shell.FileSystem).Copy)
}

func newMvCmd(m *mounter) *cobra.Command {
	return newTransferCmd(m, "mv", "Move or rename a path", (*shell.FileSystem).Move)
}

type transferFunc func(fsys *shell.FileSystem, ctx context.Context, src, dst shell.Path, opts ...core.CopyOption) error

func newTransferCmd(m *mounter, use, short string, transfer transferFunc) *cobra.Command {
	var replace, preserve bool
	cmd := &cobra.Command{
		Use:   use + " <src> <dst>",
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var opts []core.CopyOption
			if replace {
				opts = append(opts, core.ReplaceExisting)
			}
			if preserve {
				opts = append(opts, core.CopyAttributes)
			}
			return transfer(fsys, cmd.Context(), fsys.Path(args[0]), fsys.Path(args[1]), opts...)
		},
	}
	cmd.Flags().BoolVarP(&replace, "force", "f", false, "replace an existing destination")
	cmd.Flags().BoolVarP(&preserve, "preserve", "p", false, "preserve attributes")
	return cmd
}
