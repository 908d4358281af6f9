package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell"
	"github.com/spf13/cobra"
)

func newWatchCmd(m *mounter) *cobra.Command {
	var (
		strategy string
		interval time.Duration
		events   []string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Print changes to directories until interrupted",
		Long: `Print changes to directories until interrupted.

The polling strategy re-stats each directory every --interval. The inotify
strategy streams events from inotifywait, which must be installed on the
remote host.`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseEventKinds(events)
			if err != nil {
				return err
			}

			fsys, done, err := m.mount(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var opts []shell.WatchOption
			if strategy != "" {
				opts = append(opts, shell.WithStrategy(shell.WatchStrategy(strategy)))
			}
			if interval > 0 {
				opts = append(opts, shell.WithInterval(interval))
			}
			svc, err := fsys.NewWatchService(opts...)
			if err != nil {
				return err
			}
			defer svc.Close()

			for _, arg := range args {
				if _, err := svc.Register(cmd.Context(), fsys.Path(arg), kinds...); err != nil {
					return err
				}
			}

			printed := 0
			for limit == 0 || printed < limit {
				key, err := svc.Take(cmd.Context())
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}

				for _, ev := range key.PollEvents() {
					p := key.Watchable().ResolveString(ev.Context.String())
					if m.opts.jsonOutput {
						err = printJSON(cmd.OutOrStdout(), map[string]any{
							"kind":  ev.Kind.String(),
							"path":  p.String(),
							"count": ev.Count,
						})
						if err != nil {
							return err
						}
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ev.Kind, p)
					}
					printed++
				}
				key.Reset()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "", "polling or inotify (default: from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "polling interval (default: from config)")
	cmd.Flags().StringSliceVar(&events, "events", nil, "event kinds to report: create, delete, modify (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "exit after this many events (default: never)")
	return cmd
}

func parseEventKinds(names []string) ([]core.EventKind, error) {
	kinds := make([]core.EventKind, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "create":
			kinds = append(kinds, core.EventCreate)
		case "delete":
			kinds = append(kinds, core.EventDelete)
		case "modify":
			kinds = append(kinds, core.EventModify)
		default:
			return nil, &usageError{msg: fmt.Sprintf("unknown event kind %q", name)}
		}
	}
	return kinds, nil
}
