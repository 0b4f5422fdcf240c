package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/semcache/pkg/inspect"
	"github.com/pario-ai/semcache/pkg/models"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	var (
		pattern string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show keys, TTL, vector preview and response body of cached entries",
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

			run := models.Run{Command: models.RunInspect, Pattern: e.pattern(pattern), StartedAt: time.Now()}
			report, err := inspect.New(s, cmd.OutOrStdout(), e.logger, inspect.Options{
				Pattern:    run.Pattern,
				Limit:      limit,
				Dimensions: e.cfg.Vector.Dimensions,
			}).Run(ctx)

			run.Keys = report.Keys
			e.recordRun(run, err)
			e.logger.Info("inspect finished", "keys", report.Keys, "previewed", report.Previewed, "hashes", report.Hashes)
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "key pattern to inspect (default from config, \"*\")")
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries to preview (0 for all)")
	return cmd
}
