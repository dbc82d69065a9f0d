// Package redisstore persists workspace documents in Redis.
package redisstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dovepeak/quotemaster/internal/storage"
	redis "github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	prefix string
}

// New returns a store namespacing every key under prefix.
func New(client *redis.Client, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	return value, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

var _ storage.Store = (*Store)(nil)
