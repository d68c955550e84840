// Package memory provides an in-process Store, used by tests and as the
// default backend for throwaway runs.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/vncsmyrnk/democrasee/internal/adapters/store/overlay"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key)
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = clone(value)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.list(prefix), nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := overlay.New(
		func(_ context.Context, key string) ([]byte, error) { return s.get(key) },
		func(_ context.Context, prefix string) (map[string][]byte, error) { return s.list(prefix), nil },
	)
	if err := fn(tx); err != nil {
		return err
	}

	return tx.Apply(
		func(key string, value []byte) error {
			s.data[key] = clone(value)
			return nil
		},
		func(key string) error {
			delete(s.data, key)
			return nil
		},
	)
}

func (s *Store) get(key string) ([]byte, error) {
	value, ok := s.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return clone(value), nil
}

func (s *Store) list(prefix string) map[string][]byte {
	out := make(map[string][]byte)
	for key, value := range s.data {
		if strings.HasPrefix(key, prefix) {
			out[key] = clone(value)
		}
	}
	return out
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
