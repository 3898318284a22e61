package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingalban/aws-butler/internal/cursor"
	"github.com/kingalban/aws-butler/internal/logs"
	"github.com/kingalban/aws-butler/internal/render"
)

var logsOpts struct {
	group      string
	limit      int
	eventLimit int
	today      bool
	format     string
	pageSize   int32
	noPager    bool
	noColor    bool
	unmask     bool
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Browse CloudWatch Logs streams and events",
}

var logsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List a group's streams, most recent activity first",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}

		streams, err := cursor.Collect(cmd.Context(), logs.WalkStreams(session.Logs, logs.StreamQuery{
			Group:   logsOpts.group,
			Limit:   logsOpts.limit,
			LastDay: logsOpts.today,
		}))
		if err != nil {
			return err
		}

		switch logsOpts.format {
		case "table":
			fmt.Println(render.StreamTable(streams))
			return nil
		case "json":
			return render.StreamJSON(os.Stdout, streams)
		case "lines":
			for _, s := range streams {
				fmt.Println(s.Name)
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q (want table, json or lines)", logsOpts.format)
		}
	},
}

var logsCatCmd = &cobra.Command{
	Use:   "cat [STREAM...]",
	Short: "Print stream contents, earliest event first",
	Long: `Print the full contents of the named streams, earliest event first.
With no stream arguments every stream of the group is printed. Output is
paged through $PAGER unless --no-pager is given or stdout is redirected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		streams, err := resolveStreams(ctx, session.Logs, args)
		if err != nil {
			return err
		}

		write := func(w io.Writer) error {
			for _, stream := range streams {
				err := printEvents(ctx, w, session.Logs, logs.EventQuery{
					Group:    logsOpts.group,
					Stream:   stream,
					PageSize: logsOpts.pageSize,
					FromHead: true,
					Unmask:   logsOpts.unmask,
				}, false)
				if err != nil {
					return err
				}
			}
			return nil
		}

		if logsOpts.noPager || stdoutIsPipe() {
			return write(os.Stdout)
		}
		return render.Page(write)
	},
}

var logsHeadCmd = &cobra.Command{
	Use:   "head [STREAM...]",
	Short: "Print the first events of each stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoundedEvents(cmd, args, true)
	},
}

var logsTailCmd = &cobra.Command{
	Use:   "tail [STREAM...]",
	Short: "Print the last events of each stream, latest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoundedEvents(cmd, args, false)
	},
}

// runBoundedEvents serves head and tail: a capped walk per stream,
// from the oldest events for head and from the newest for tail.
func runBoundedEvents(cmd *cobra.Command, args []string, fromHead bool) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	streams, err := resolveStreams(ctx, session.Logs, args)
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := printEvents(ctx, os.Stdout, session.Logs, logs.EventQuery{
			Group:    logsOpts.group,
			Stream:   stream,
			Limit:    logsOpts.eventLimit,
			FromHead: fromHead,
			Unmask:   logsOpts.unmask,
		}, !fromHead)
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveStreams expands an empty argument list to every stream of the
// group, in the service's most-recent-first order.
func resolveStreams(ctx context.Context, client logs.API, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	all, err := cursor.Collect(ctx, logs.WalkStreams(client, logs.StreamQuery{Group: logsOpts.group}))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names, nil
}

// printEvents writes one stream's header and events. With reverse the
// walk is materialized and printed latest-first.
func printEvents(ctx context.Context, w io.Writer, client logs.API, q logs.EventQuery, reverse bool) error {
	color := !logsOpts.noColor
	fmt.Fprintln(w, render.StreamHeader(q.Group, q.Stream, color))

	walker := logs.WalkEvents(client, q)
	if reverse {
		events, err := cursor.Collect(ctx, walker)
		if err != nil {
			return err
		}
		for i := len(events) - 1; i >= 0; i-- {
			fmt.Fprintln(w, render.EventLine(events[i], color))
		}
		return nil
	}

	for {
		event, ok, err := walker.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fmt.Fprintln(w, render.EventLine(event, color))
	}
}

func init() {
	logsCmd.PersistentFlags().StringVarP(&logsOpts.group, "log-group", "g", "", "log group name")
	logsCmd.MarkPersistentFlagRequired("log-group")

	logsLsCmd.Flags().IntVarP(&logsOpts.limit, "number", "n", 0, "cap the number of streams listed (0 = all)")
	logsLsCmd.Flags().BoolVar(&logsOpts.today, "today", false, "only streams created in the last 24 hours")
	logsLsCmd.Flags().StringVar(&logsOpts.format, "format", "table", "output format: table, json or lines")

	logsCatCmd.Flags().Int32Var(&logsOpts.pageSize, "page-size", 0, "events per request (max 10000)")
	logsCatCmd.Flags().BoolVar(&logsOpts.noPager, "no-pager", false, "write directly to stdout")

	for _, c := range []*cobra.Command{logsCatCmd, logsHeadCmd, logsTailCmd} {
		c.Flags().BoolVar(&logsOpts.noColor, "no-color", false, "strip ANSI colors from output")
		c.Flags().BoolVar(&logsOpts.unmask, "unmask", false, "reveal data-protection masked content")
	}
	for _, c := range []*cobra.Command{logsHeadCmd, logsTailCmd} {
		c.Flags().IntVarP(&logsOpts.eventLimit, "number", "n", 10, "number of events per stream")
	}

	logsCmd.AddCommand(logsLsCmd, logsCatCmd, logsHeadCmd, logsTailCmd)
	rootCmd.AddCommand(logsCmd)
}
