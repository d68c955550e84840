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

type PollRepository struct {
	store ports.Store
}

func NewPollRepository(store ports.Store) *PollRepository {
	return &PollRepository{store: store}
}

func (r *PollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	raw, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("failed to encode poll: %w", err)
	}
	return r.store.Set(ctx, pollKey(poll.ID), raw)
}

func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	raw, err := r.store.Get(ctx, pollKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	var poll domain.Poll
	if err := json.Unmarshal(raw, &poll); err != nil {
		return nil, fmt.Errorf("failed to decode poll: %w", err)
	}
	return &poll, nil
}

func (r *PollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	entries, err := r.store.List(ctx, pollPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	polls := make([]*domain.Poll, 0, len(entries))
	for key, raw := range entries {
		var poll domain.Poll
		if err := json.Unmarshal(raw, &poll); err != nil {
			return nil, fmt.Errorf("failed to decode poll %s: %w", key, err)
		}
		polls = append(polls, &poll)
	}

	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].StartsAt.Equal(polls[j].StartsAt) {
			return polls[i].StartsAt.Before(polls[j].StartsAt)
		}
		return polls[i].Title < polls[j].Title
	})
	return polls, nil
}

// Delete removes the poll together with its candidates and votes so no
// orphaned records survive a partial failure.
func (r *PollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		if _, err := tx.Get(ctx, pollKey(id)); err != nil {
			if errors.Is(err, ports.ErrKeyNotFound) {
				return domain.ErrPollNotFound
			}
			return fmt.Errorf("failed to get poll: %w", err)
		}
		if err := tx.Delete(ctx, pollKey(id)); err != nil {
			return err
		}

		candidates, err := tx.List(ctx, candidatePrefix)
		if err != nil {
			return fmt.Errorf("failed to list candidates: %w", err)
		}
		for key, raw := range candidates {
			var candidate domain.Candidate
			if err := json.Unmarshal(raw, &candidate); err != nil {
				return fmt.Errorf("failed to decode candidate %s: %w", key, err)
			}
			if candidate.PollID != id {
				continue
			}
			if err := tx.Delete(ctx, key); err != nil {
				return err
			}
		}

		votes, err := tx.List(ctx, pollVotesPrefix(id))
		if err != nil {
			return fmt.Errorf("failed to list votes: %w", err)
		}
		for key := range votes {
			if err := tx.Delete(ctx, key); err != nil {
				return err
			}
		}

		return nil
	})
}
