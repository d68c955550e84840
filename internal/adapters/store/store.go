package store

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/democrasee/internal/adapters/store/file"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store/memory"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store/postgres"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store/redis"
	"github.com/vncsmyrnk/democrasee/internal/config"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

// Open builds the store named by the configuration. The returned closer
// releases any backing connection and is a no-op for in-process backends.
func Open(ctx context.Context, conf config.Storage) (ports.Store, func() error, error) {
	switch conf.Backend {
	case "memory":
		return memory.New(), noopClose, nil
	case "file":
		s, err := file.New(conf.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return s, noopClose, nil
	case "postgres":
		db, err := postgres.Open(conf.Postgres.URL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return postgres.New(db), db.Close, nil
	case "redis":
		client, err := redis.Open(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return redis.New(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", conf.Backend)
	}
}

func noopClose() error { return nil }
