package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pario-ai/semcache/pkg/history"
)

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past inspect and clear runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openHistory(flags, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := l.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tCOMMAND\tPATTERN\tKEYS\tDELETED\tREMAINING\tDURATION\tERROR")
			for _, r := range runs {
				command := string(r.Command)
				if r.DryRun {
					command += " (dry-run)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					humanize.Time(r.StartedAt), command, r.Pattern, r.Keys, r.Deleted, r.Remaining,
					r.Duration().Round(time.Millisecond), r.Error)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to show (0 for all)")

	var olderThan time.Duration
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete recorded runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			l, cleanup, err := openHistory(flags, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := l.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs.\n", n)
			return nil
		},
	}
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "remove runs started before now minus this duration")

	cmd.AddCommand(pruneCmd)
	return cmd
}

func openHistory(flags *globalFlags, cmd *cobra.Command) (*history.Log, func(), error) {
	e, err := loadEnv(flags, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	if !e.cfg.History.Enabled {
		return nil, nil, fmt.Errorf("history is disabled in config")
	}
	l, err := history.New(e.cfg.History.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Close() }, nil
}
