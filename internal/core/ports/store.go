package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Store implementations for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// Tx is the view a Store transaction exposes. Reads observe writes made
// earlier in the same transaction.
type Tx interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// Store is the key to JSON-blob storage collaborator. Values are opaque JSON
// documents; keys are namespaced strings. Update runs fn against a
// transactional view and commits every buffered write atomically, or discards
// all of them when fn returns an error.
type Store interface {
	Tx
	Update(ctx context.Context, fn func(tx Tx) error) error
}
