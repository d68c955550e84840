package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type UserRepository struct {
	store ports.Store
}

func NewUserRepository(store ports.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		entries, err := tx.List(ctx, userPrefix)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for key, raw := range entries {
			var existing domain.User
			if err := json.Unmarshal(raw, &existing); err != nil {
				return fmt.Errorf("failed to decode user %s: %w", key, err)
			}
			if existing.Username == user.Username {
				return domain.ErrUsernameTaken
			}
		}

		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		return tx.Set(ctx, userKey(user.ID), raw)
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	raw, err := r.store.Get(ctx, userKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	entries, err := r.store.List(ctx, userPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.User, 0, len(entries))
	for key, raw := range entries {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", key, err)
		}
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *UserRepository) ResetAll(ctx context.Context, keep *domain.User) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		users, err := tx.List(ctx, userPrefix)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for key := range users {
			if err := tx.Delete(ctx, key); err != nil {
				return err
			}
		}

		// Live sessions refer to deleted users; drop them in the same commit.
		sessions, err := tx.List(ctx, sessionPrefix)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		for key := range sessions {
			if err := tx.Delete(ctx, key); err != nil {
				return err
			}
		}

		raw, err := json.Marshal(keep)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		return tx.Set(ctx, userKey(keep.ID), raw)
	})
}
