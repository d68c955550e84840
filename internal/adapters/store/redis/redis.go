// Package redis provides a Store over redis string values. Update serializes
// writers locally (the engine assumes a single logical writer) and commits
// the buffered mutations in one MULTI/EXEC pipeline so a partial batch never
// becomes visible.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/vncsmyrnk/democrasee/internal/adapters/store/overlay"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type Store struct {
	mu     sync.Mutex
	client *redis.Client
}

// Open connects and pings a redis instance.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		for _, key := range keys {
			value, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return nil, fmt.Errorf("failed to get key: %w", err)
			}
			out[key] = value
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := overlay.New(s.Get, s.List)
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.HasWrites() {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return tx.Apply(
			func(key string, value []byte) error {
				pipe.Set(ctx, key, value, 0)
				return nil
			},
			func(key string) error {
				pipe.Del(ctx, key)
				return nil
			},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to commit pipeline: %w", err)
	}
	return nil
}
