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

type CandidateRepository struct {
	store ports.Store
}

func NewCandidateRepository(store ports.Store) *CandidateRepository {
	return &CandidateRepository{store: store}
}

func (r *CandidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	raw, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("failed to encode candidate: %w", err)
	}
	return r.store.Set(ctx, candidateKey(candidate.ID), raw)
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	raw, err := r.store.Get(ctx, candidateKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	var candidate domain.Candidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, fmt.Errorf("failed to decode candidate: %w", err)
	}
	return &candidate, nil
}

func (r *CandidateRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Candidate, error) {
	entries, err := r.store.List(ctx, candidatePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	candidates := make([]*domain.Candidate, 0)
	for key, raw := range entries {
		var candidate domain.Candidate
		if err := json.Unmarshal(raw, &candidate); err != nil {
			return nil, fmt.Errorf("failed to decode candidate %s: %w", key, err)
		}
		if candidate.PollID == pollID {
			candidates = append(candidates, &candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates, nil
}

func (r *CandidateRepository) CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error) {
	candidates, err := r.ListByPoll(ctx, pollID)
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

func (r *CandidateRepository) HasRegistered(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	candidates, err := r.ListByPoll(ctx, pollID)
	if err != nil {
		return false, err
	}
	for _, candidate := range candidates {
		if candidate.RegisteredBy == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		if _, err := tx.Get(ctx, candidateKey(id)); err != nil {
			if errors.Is(err, ports.ErrKeyNotFound) {
				return domain.ErrCandidateNotFound
			}
			return fmt.Errorf("failed to get candidate: %w", err)
		}
		return tx.Delete(ctx, candidateKey(id))
	})
}
