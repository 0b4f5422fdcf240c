// Package purge deletes every semantic cache entry and verifies the store is
// empty afterwards.
package purge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/pario-ai/semcache/pkg/store"
)

// Options controls a single clear.
type Options struct {
	// Pattern is the KEYS pattern; empty means "*".
	Pattern string
	// DryRun lists the keys that would be deleted without deleting them.
	DryRun bool
}

// Result reports key counts around a clear.
type Result struct {
	Before  int
	Deleted int
	After   int
	DryRun  bool
}

// Cleared reports whether no matching keys remain.
func (r Result) Cleared() bool {
	return r.After == 0
}

// Clearer deletes keys one at a time. There is no transaction: an interrupted
// run leaves a partially cleared store and running again finishes the job.
type Clearer struct {
	store  store.Store
	out    io.Writer
	logger *slog.Logger
	opts   Options
}

// New creates a Clearer.
func New(s store.Store, out io.Writer, logger *slog.Logger, opts Options) *Clearer {
	if opts.Pattern == "" {
		opts.Pattern = "*"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Clearer{store: s, out: out, logger: logger, opts: opts}
}

// Run clears all keys matching the pattern. Keys that survive the clear are
// reported as a warning, not an error.
func (c *Clearer) Run(ctx context.Context) (Result, error) {
	res := Result{DryRun: c.opts.DryRun}

	if err := c.store.Ping(ctx); err != nil {
		return res, err
	}

	keys, err := c.store.Keys(ctx, c.opts.Pattern)
	if err != nil {
		return res, err
	}
	res.Before = len(keys)
	fmt.Fprintf(c.out, "Keys in cache before clearing: %d\n", res.Before)

	if c.opts.DryRun {
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(c.out, "Would delete: %s\n", key)
		}
		res.After = res.Before
		fmt.Fprintf(c.out, "Dry run: %d keys would be deleted\n", res.Before)
		return res, nil
	}

	if len(keys) == 0 {
		fmt.Fprintln(c.out, "Cache was already empty")
	} else {
		for _, key := range keys {
			n, err := c.store.Del(ctx, key)
			if err != nil {
				return res, err
			}
			res.Deleted += int(n)
			c.logger.Debug("deleted key", "key", key, "removed", n)
		}
		fmt.Fprintf(c.out, "Deleted %d keys from cache\n", len(keys))
	}

	after, err := c.store.Keys(ctx, c.opts.Pattern)
	if err != nil {
		return res, err
	}
	res.After = len(after)
	fmt.Fprintf(c.out, "Keys in cache after clearing: %d\n", res.After)

	if res.Cleared() {
		fmt.Fprintln(c.out, "✓ Cache successfully cleared!")
	} else {
		fmt.Fprintf(c.out, "⚠ Warning: %d keys still remain\n", res.After)
		c.logger.Warn("keys remain after clear", "pattern", c.opts.Pattern, "remaining", res.After)
	}
	return res, nil
}
