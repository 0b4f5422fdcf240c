// Package inspect prints a preview of every semantic cache entry in the store.
package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pario-ai/semcache/pkg/models"
	"github.com/pario-ai/semcache/pkg/preview"
	"github.com/pario-ai/semcache/pkg/store"
)

// Options controls a single inspection.
type Options struct {
	// Pattern is the KEYS pattern; empty means "*".
	Pattern string
	// Limit caps how many entries are previewed; 0 previews all.
	Limit int
	// Dimensions is the expected vector length; 0 disables the check.
	Dimensions int
}

// Report summarizes what an inspection saw.
type Report struct {
	Keys                int
	Previewed           int
	Hashes              int
	Vectors             int
	DimensionMismatches int
	Bodies              map[preview.BodyKind]int
}

// Inspector walks the store once and writes a text preview to out.
type Inspector struct {
	store  store.Store
	out    io.Writer
	logger *slog.Logger
	opts   Options
}

// New creates an Inspector.
func New(s store.Store, out io.Writer, logger *slog.Logger, opts Options) *Inspector {
	if opts.Pattern == "" {
		opts.Pattern = "*"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inspector{store: s, out: out, logger: logger, opts: opts}
}

const rule = 60

// Run performs the inspection. Store errors abort the scan; undecodable
// field contents never do.
func (i *Inspector) Run(ctx context.Context) (Report, error) {
	report := Report{Bodies: make(map[preview.BodyKind]int)}

	if err := i.store.Ping(ctx); err != nil {
		return report, err
	}

	keys, err := i.store.Keys(ctx, i.opts.Pattern)
	if err != nil {
		return report, err
	}
	report.Keys = len(keys)
	i.logger.Debug("listed keys", "pattern", i.opts.Pattern, "count", len(keys))

	if len(keys) == 0 {
		fmt.Fprintln(i.out, "Cache is empty - no entries found")
		fmt.Fprintln(i.out, "Run some API requests first to populate the cache")
		return report, nil
	}

	sort.Strings(keys)
	shown := keys
	if i.opts.Limit > 0 && len(keys) > i.opts.Limit {
		shown = keys[:i.opts.Limit]
	}

	fmt.Fprintln(i.out, strings.Repeat("-", rule))
	fmt.Fprintln(i.out, "Cached Entries:")
	fmt.Fprintln(i.out, strings.Repeat("-", rule))

	for idx, key := range shown {
		entry, err := i.fetch(ctx, key)
		if err != nil {
			return report, err
		}
		fmt.Fprintf(i.out, "Entry %d/%d\n", idx+1, len(keys))
		i.printEntry(entry, &report)
		fmt.Fprintln(i.out)
		report.Previewed++
	}

	if len(shown) < len(keys) {
		fmt.Fprintf(i.out, "Showing %d of %d entries\n", len(shown), len(keys))
	}

	i.printVectorFormat()
	fmt.Fprintln(i.out, strings.Repeat("=", rule))
	return report, nil
}

func (i *Inspector) fetch(ctx context.Context, key string) (models.CacheEntry, error) {
	entry := models.CacheEntry{Key: key}

	ttl, err := i.store.TTL(ctx, key)
	if err != nil {
		return entry, err
	}
	entry.TTL = ttl

	typ, err := i.store.Type(ctx, key)
	if err != nil {
		return entry, err
	}
	entry.Type = typ

	if entry.IsHash() {
		fields, err := i.store.HGetAll(ctx, key)
		if err != nil {
			return entry, err
		}
		entry.Fields = fields
	}

	i.logger.Debug("fetched entry", "key", key, "type", typ, "ttl", ttl, "fields", len(entry.Fields))
	return entry, nil
}

func (i *Inspector) printEntry(entry models.CacheEntry, report *Report) {
	fmt.Fprintf(i.out, "Key: %s\n", entry.Key)
	fmt.Fprintln(i.out, formatTTL(entry.TTL))

	if !entry.IsHash() {
		return
	}
	report.Hashes++

	if vec, ok := entry.Field(models.FieldVector); ok {
		report.Vectors++
		fmt.Fprintf(i.out, "Vector: %s\n", preview.Vector(vec))
		if i.opts.Dimensions > 0 {
			dims, exact := preview.VectorDimensions(vec)
			if dims != i.opts.Dimensions || !exact {
				report.DimensionMismatches++
				fmt.Fprintf(i.out, "Vector: warning: %d bytes, expected %d (%d dimensions)\n",
					len(vec), i.opts.Dimensions*4, i.opts.Dimensions)
				i.logger.Warn("vector length mismatch", "key", entry.Key, "bytes", len(vec), "dimensions", i.opts.Dimensions)
			}
		}
	}

	if body, ok := entry.Field(models.FieldCacheEntry); ok {
		res := preview.ResponseBody(body)
		report.Bodies[res.Kind]++
		fmt.Fprintln(i.out, "CacheEntry:")
		fmt.Fprintln(i.out, formatBody(res))
		i.logger.Debug("decoded body", "key", entry.Key, "kind", res.Kind.String(), "offset", res.Offset, "fallback", res.Fallback)
	}
}

func formatTTL(ttl int64) string {
	switch {
	case ttl > 0:
		return fmt.Sprintf("TTL: %d seconds remaining", ttl)
	case ttl == models.TTLNoExpiry:
		return "TTL: No expiration"
	default:
		return "TTL: Expired"
	}
}

func formatBody(res preview.BodyResult) string {
	switch res.Kind {
	case preview.BodyFound:
		return indent(res.Content)
	case preview.BodyEmpty:
		return "  No response content in JSON body"
	case preview.BodyMalformed:
		return "  Could not parse JSON body"
	default:
		return "  Could not find JSON body in envelope"
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func (i *Inspector) printVectorFormat() {
	fmt.Fprintln(i.out)
	fmt.Fprintln(i.out, "Vector Format Information:")
	if i.opts.Dimensions > 0 {
		fmt.Fprintf(i.out, "  Dimensions: %d\n", i.opts.Dimensions)
	} else {
		fmt.Fprintln(i.out, "  Dimensions: unchecked")
	}
	fmt.Fprintln(i.out, "  Precision: FP32 (32-bit floating point, little-endian)")
	fmt.Fprintln(i.out, "  Storage: 4 bytes per dimension (32 bits)")
	if i.opts.Dimensions > 0 {
		fmt.Fprintf(i.out, "  Total size: %s bytes per vector\n", humanize.Comma(int64(i.opts.Dimensions*4)))
	}
	fmt.Fprintln(i.out, "  Display: Decimal representation (e.g., -0.042272)")
	fmt.Fprintln(i.out)
}
