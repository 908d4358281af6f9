// Package cli implements the shellfs command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitUsage     = 2
	ExitPanic     = 3
	ExitConfig    = 10
	ExitTransport = 11
	ExitNotFound  = 12
	ExitExists    = 13
	ExitForbidden = 14
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "SHELLFS"

type globalOptions struct {
	mount      string
	configFile string
	knownHosts []string
	password   bool
	verbose    bool
	jsonOutput bool
}

// Execute runs the command line with args and returns the process exit code.
func Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, defaultSessionFactory, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, factory sessionFactoryFunc, stdin io.Reader, stdout, stderr io.Writer) int {
	root, opts := newRootCmd(factory)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	printError(stderr, err, opts.jsonOutput)
	return exitCode(err)
}

func newRootCmd(factory sessionFactoryFunc) (*cobra.Command, *globalOptions) {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "shellfs",
		Short: "Browse and edit a remote filesystem over SSH",
		Long: `shellfs mounts a directory of a remote host over SSH and operates on it
with the host's own coreutils (stat, ls, cat, dd, cp, mv).

The mount URI has the form ssh.unix://user@host[:port]/absolute/dir and may
also be given with SHELLFS_MOUNT. Relative paths resolve against its
directory.

Exit Codes:
  0  - Success
  1  - General error
  2  - Usage error
  3  - Panic
  10 - Invalid configuration
  11 - Connection or transport failure
  12 - Path not found
  13 - Path already exists
  14 - Permission denied`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.mount, "mount", "m", os.Getenv(EnvPrefix+"_MOUNT"), "mount URI (ssh.unix://user@host:port/dir)")
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML config file (default: read SHELLFS_* environment)")
	flags.StringSliceVar(&opts.knownHosts, "known-hosts", nil, "known_hosts files used to verify the host key")
	flags.BoolVar(&opts.password, "password", false, "prompt for a password")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every remote command")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print results and errors as JSON")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	m := &mounter{opts: opts, factory: factory}
	root.AddCommand(
		newLsCmd(m),
		newStatCmd(m),
		newCatCmd(m),
		newPutCmd(m),
		newMkdirCmd(m),
		newRmCmd(m),
		newCpCmd(m),
		newMvCmd(m),
		newWatchCmd(m),
	)
	return root, opts
}

func printError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(w).Encode(errors.ToJSON(err))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidConfig:
		return ExitConfig
	case errors.CodeTransport, errors.CodeTimeout:
		return ExitTransport
	case errors.CodeNotFound:
		return ExitNotFound
	case errors.CodeAlreadyExists:
		return ExitExists
	case errors.CodeForbidden:
		return ExitForbidden
	default:
		return ExitError
	}
}

// usageError marks a bad invocation.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{msg: err.Error()}
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reported as a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &usageError{msg: err.Error()}
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs reported as a usage error.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return &usageError{msg: err.Error()}
		}
		return nil
	}
}
