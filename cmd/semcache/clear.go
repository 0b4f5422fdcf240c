package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/semcache/pkg/models"
	"github.com/pario-ai/semcache/pkg/purge"
)

func newClearCmd(flags *globalFlags) *cobra.Command {
	var (
		pattern string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cache entries and verify the cache is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s := e.openStore()
			defer func() { _ = s.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := models.Run{Command: models.RunClear, Pattern: e.pattern(pattern), DryRun: dryRun, StartedAt: time.Now()}
			res, err := purge.New(s, cmd.OutOrStdout(), e.logger, purge.Options{
				Pattern: run.Pattern,
				DryRun:  dryRun,
			}).Run(ctx)

			run.Keys = res.Before
			run.Deleted = res.Deleted
			run.Remaining = res.After
			e.recordRun(run, err)
			e.logger.Info("clear finished", "before", res.Before, "deleted", res.Deleted, "after", res.After)
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "key pattern to clear (default from config, \"*\")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list matching keys without deleting them")
	return cmd
}
