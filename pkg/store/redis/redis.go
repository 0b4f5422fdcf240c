// Package redis implements store.Store on top of go-redis.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pario-ai/semcache/pkg/config"
	"github.com/pario-ai/semcache/pkg/store"
)

// Store is a store.Store backed by a single Redis client.
type Store struct {
	client *goredis.Client
}

var _ store.Store = (*Store)(nil)

// New builds a client from the store configuration. No connection is made
// until the first command.
func New(cfg config.StoreConfig) *Store {
	opts := &goredis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   -1,
	}
	if cfg.TLS.Enabled {
		serverName := cfg.TLS.ServerName
		if serverName == "" {
			serverName = cfg.Host
		}
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			ServerName:         serverName,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		}
	}
	return &Store{client: goredis.NewClient(opts)}
}

// Ping checks connectivity. Failures wrap store.ErrConnect.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrConnect, err)
	}
	return nil
}

// Keys implements store.Store.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w", pattern, err)
	}
	return keys, nil
}

// Type implements store.Store.
func (s *Store) Type(ctx context.Context, key string) (string, error) {
	t, err := s.client.Type(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("type %q: %w", key, err)
	}
	return t, nil
}

// TTL implements store.Store. go-redis passes the -1 and -2 sentinels through
// as raw durations and scales everything else to seconds.
func (s *Store) TTL(ctx context.Context, key string) (int64, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl %q: %w", key, err)
	}
	if d < 0 {
		return int64(d), nil
	}
	return int64(d / time.Second), nil
}

// HGetAll implements store.Store.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %q: %w", key, err)
	}
	out := make(map[string][]byte, len(fields))
	for name, val := range fields {
		out[name] = []byte(val)
	}
	return out, nil
}

// Del implements store.Store.
func (s *Store) Del(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("del %q: %w", key, err)
	}
	return n, nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.client.Close()
}
