package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pario-ai/semcache/pkg/store"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, store.ErrConnect) {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "semcache",
		Short:         "Inspect and clear a Redis-backed semantic LLM cache",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file (defaults and REDIS_* env when empty)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newInspectCmd(&flags),
		newClearCmd(&flags),
		newHistoryCmd(&flags),
	)
	return root
}
