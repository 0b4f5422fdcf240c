// Package store defines the key-value operations the cache tools need.
package store

import (
	"context"
	"errors"
)

// ErrConnect reports that the store could not be reached.
var ErrConnect = errors.New("store connection failed")

// Store is the subset of a key-value store used to inspect and clear the cache.
type Store interface {
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Keys returns all keys matching pattern ("*" for all) in one call.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Type returns the structural kind of the value stored at key.
	Type(ctx context.Context, key string) (string, error)
	// TTL returns remaining seconds, -1 for no expiry or -2 for a missing key.
	TTL(ctx context.Context, key string) (int64, error)
	// HGetAll returns every field of a hash as raw bytes.
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
	// Del deletes key and reports how many keys were removed.
	Del(ctx context.Context, key string) (int64, error)
	// Close releases the connection.
	Close() error
}
