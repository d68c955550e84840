// Package file provides a Store persisted as a single JSON document, the
// closest analog to the browser key-value storage the engine was designed
// around. Every mutation rewrites the file through a temp-file rename so a
// crash mid-write cannot truncate existing data.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vncsmyrnk/democrasee/internal/adapters/store/overlay"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.persist(map[string]json.RawMessage{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat store file: %w", err)
	}

	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	value, ok := data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return []byte(value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = json.RawMessage(value)
	return s.persist(data)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.persist(data)
}

func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return listPrefix(data, prefix), nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	tx := overlay.New(
		func(_ context.Context, key string) ([]byte, error) {
			value, ok := data[key]
			if !ok {
				return nil, ports.ErrKeyNotFound
			}
			return []byte(value), nil
		},
		func(_ context.Context, prefix string) (map[string][]byte, error) {
			return listPrefix(data, prefix), nil
		},
	)
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.HasWrites() {
		return nil
	}

	if err := tx.Apply(
		func(key string, value []byte) error {
			data[key] = json.RawMessage(value)
			return nil
		},
		func(key string) error {
			delete(data, key)
			return nil
		},
	); err != nil {
		return err
	}

	// Nothing hit the disk yet, so a fn error above was a free rollback; the
	// single persist below is the commit point.
	return s.persist(data)
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	data := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}
	return data, nil
}

func (s *Store) persist(data map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".democrasee-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func listPrefix(data map[string]json.RawMessage, prefix string) map[string][]byte {
	out := make(map[string][]byte)
	for key, value := range data {
		if strings.HasPrefix(key, prefix) {
			out[key] = []byte(value)
		}
	}
	return out
}
