package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pario-ai/semcache/pkg/config"
	"github.com/pario-ai/semcache/pkg/history"
	"github.com/pario-ai/semcache/pkg/models"
	redisstore "github.com/pario-ai/semcache/pkg/store/redis"
)

// env bundles what every command needs after flag parsing.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv(flags *globalFlags, stderr io.Writer) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := newLogger(stderr, level)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "", "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func (e *env) openStore() *redisstore.Store {
	e.logger.Debug("connecting to store",
		"host", e.cfg.Store.Host, "port", e.cfg.Store.Port, "db", e.cfg.Store.DB, "tls", e.cfg.Store.TLS.Enabled)
	return redisstore.New(e.cfg.Store)
}

func (e *env) pattern(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return e.cfg.Pattern
}

// recordRun appends run to the history log when history is enabled. Failures
// are logged and never change the command's outcome.
func (e *env) recordRun(run models.Run, runErr error) {
	if !e.cfg.History.Enabled {
		return
	}
	run.FinishedAt = time.Now()
	if runErr != nil {
		run.Error = runErr.Error()
	}

	l, err := history.New(e.cfg.History.DBPath)
	if err != nil {
		e.logger.Warn("open history", "err", err)
		return
	}
	defer func() { _ = l.Close() }()

	id, err := l.Record(context.Background(), run)
	if err != nil {
		e.logger.Warn("record run", "err", err)
		return
	}
	e.logger.Debug("recorded run", "id", id, "command", run.Command)
}
