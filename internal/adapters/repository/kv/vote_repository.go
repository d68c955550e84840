package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type VoteRepository struct {
	store ports.Store
}

func NewVoteRepository(store ports.Store) *VoteRepository {
	return &VoteRepository{store: store}
}

// CastVote appends the vote record and bumps the candidate's tally in a
// single commit; a storage fault rolls both back.
func (r *VoteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		key := voteKey(vote.PollID, vote.UserID)
		if _, err := tx.Get(ctx, key); err == nil {
			return domain.ErrAlreadyVoted
		} else if !errors.Is(err, ports.ErrKeyNotFound) {
			return fmt.Errorf("failed to get vote: %w", err)
		}

		raw, err := json.Marshal(vote)
		if err != nil {
			return fmt.Errorf("failed to encode vote: %w", err)
		}
		if err := tx.Set(ctx, key, raw); err != nil {
			return err
		}

		candidateRaw, err := tx.Get(ctx, candidateKey(vote.CandidateID))
		if err != nil {
			if errors.Is(err, ports.ErrKeyNotFound) {
				return domain.ErrCandidateNotFound
			}
			return fmt.Errorf("failed to get candidate: %w", err)
		}
		var candidate domain.Candidate
		if err := json.Unmarshal(candidateRaw, &candidate); err != nil {
			return fmt.Errorf("failed to decode candidate: %w", err)
		}
		if candidate.PollID != vote.PollID {
			return domain.ErrCandidateNotFound
		}

		candidate.Votes++
		updated, err := json.Marshal(&candidate)
		if err != nil {
			return fmt.Errorf("failed to encode candidate: %w", err)
		}
		return tx.Set(ctx, candidateKey(candidate.ID), updated)
	})
}

func (r *VoteRepository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	_, err := r.store.Get(ctx, voteKey(pollID, userID))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get vote: %w", err)
	}
	return true, nil
}

func (r *VoteRepository) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	raw, err := r.store.Get(ctx, voteKey(pollID, userID))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	var vote domain.Vote
	if err := json.Unmarshal(raw, &vote); err != nil {
		return nil, fmt.Errorf("failed to decode vote: %w", err)
	}
	return &vote, nil
}

func (r *VoteRepository) CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error) {
	entries, err := r.store.List(ctx, pollVotesPrefix(pollID))
	if err != nil {
		return 0, fmt.Errorf("failed to list votes: %w", err)
	}
	return len(entries), nil
}

// ResetPoll deletes the poll's votes and zeroes its candidates' tallies in a
// single commit.
func (r *VoteRepository) ResetPoll(ctx context.Context, pollID uuid.UUID) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		votes, err := tx.List(ctx, pollVotesPrefix(pollID))
		if err != nil {
			return fmt.Errorf("failed to list votes: %w", err)
		}
		for key := range votes {
			if err := tx.Delete(ctx, key); err != nil {
				return err
			}
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
			if candidate.PollID != pollID || candidate.Votes == 0 {
				continue
			}

			candidate.Votes = 0
			updated, err := json.Marshal(&candidate)
			if err != nil {
				return fmt.Errorf("failed to encode candidate: %w", err)
			}
			if err := tx.Set(ctx, key, updated); err != nil {
				return err
			}
		}

		return nil
	})
}
