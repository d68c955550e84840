// Package overlay provides the buffered-write transaction view shared by the
// store backends that cannot delegate transactions to their engine.
package overlay

import (
	"context"
	"strings"

	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

// Tx implements ports.Tx over a read-through base. Writes and deletes are
// buffered until Apply; reads observe the buffer first.
type Tx struct {
	// Fetch reads a key from the base, returning ports.ErrKeyNotFound when
	// absent.
	Fetch func(ctx context.Context, key string) ([]byte, error)
	// Scan lists base entries under a prefix.
	Scan func(ctx context.Context, prefix string) (map[string][]byte, error)

	pending map[string][]byte
	deleted map[string]struct{}
}

func New(fetch func(ctx context.Context, key string) ([]byte, error), scan func(ctx context.Context, prefix string) (map[string][]byte, error)) *Tx {
	return &Tx{
		Fetch:   fetch,
		Scan:    scan,
		pending: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

func (t *Tx) Get(ctx context.Context, key string) ([]byte, error) {
	if _, ok := t.deleted[key]; ok {
		return nil, ports.ErrKeyNotFound
	}
	if v, ok := t.pending[key]; ok {
		return cloneBytes(v), nil
	}
	return t.Fetch(ctx, key)
}

func (t *Tx) Set(ctx context.Context, key string, value []byte) error {
	delete(t.deleted, key)
	t.pending[key] = cloneBytes(value)
	return nil
}

func (t *Tx) Delete(ctx context.Context, key string) error {
	delete(t.pending, key)
	t.deleted[key] = struct{}{}
	return nil
}

func (t *Tx) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	out, err := t.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	for key := range t.deleted {
		delete(out, key)
	}
	for key, value := range t.pending {
		if strings.HasPrefix(key, prefix) {
			out[key] = cloneBytes(value)
		}
	}
	return out, nil
}

// Apply replays the buffered mutations through the given callbacks, deletes
// first so a delete-then-set sequence lands as a set.
func (t *Tx) Apply(set func(key string, value []byte) error, del func(key string) error) error {
	for key := range t.deleted {
		if err := del(key); err != nil {
			return err
		}
	}
	for key, value := range t.pending {
		if err := set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// HasWrites reports whether the transaction buffered any mutation.
func (t *Tx) HasWrites() bool {
	return len(t.pending) > 0 || len(t.deleted) > 0
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
